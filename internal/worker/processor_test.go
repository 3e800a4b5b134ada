package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/greencity/econews_server/internal/pkg/rating"
)

type recordingSink struct {
	mu     sync.Mutex
	events []*rating.Event
	err    error
}

func (s *recordingSink) Send(ctx context.Context, ev *rating.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func setupQueue(t *testing.T) *rating.Queue {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	return rating.NewQueue(client, "rating_test")
}

func TestProcessor_Process(t *testing.T) {
	sink := &recordingSink{}
	p := NewProcessor(nil, sink, zap.NewNop())

	ev := rating.NewEvent(rating.AddComment, 5, "tok")
	require.NoError(t, p.Process(context.Background(), ev))
	require.Equal(t, 1, sink.count())
	assert.Equal(t, ev.ID, sink.events[0].ID)

	sink.err = errors.New("service unavailable")
	assert.Error(t, p.Process(context.Background(), ev))
}

func TestProcessor_RunDrainsQueue(t *testing.T) {
	q := setupQueue(t)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		require.NoError(t, q.Push(ctx, rating.NewEvent(rating.AddComment, int64(i), "")))
	}

	sink := &recordingSink{}
	p := NewProcessor(q, sink, zap.NewNop())
	p.popTimeout = 50 * time.Millisecond

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		p.Run(runCtx, 2)
		close(done)
	}()

	require.Eventually(t, func() bool { return sink.count() == 4 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("processor did not stop")
	}

	length, err := q.Length(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), length)
}

func TestProcessor_FailureLoggedAndContinues(t *testing.T) {
	q := setupQueue(t)
	ctx := context.Background()
	require.NoError(t, q.Push(ctx, rating.NewEvent(rating.DeleteComment, 1, "")))
	require.NoError(t, q.Push(ctx, rating.NewEvent(rating.DeleteComment, 2, "")))

	core, logs := observer.New(zap.WarnLevel)
	sink := &recordingSink{err: errors.New("boom")}
	p := NewProcessor(q, sink, zap.New(core))
	p.popTimeout = 50 * time.Millisecond

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go p.Run(runCtx, 1)

	require.Eventually(t, func() bool { return sink.count() == 2 }, 2*time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return logs.FilterMessage("rating event failed").Len() == 2
	}, time.Second, 10*time.Millisecond)
}

func TestProcessor_LogsBacklogOnStart(t *testing.T) {
	q := setupQueue(t)
	ctx := context.Background()
	for i := int64(1); i <= 3; i++ {
		require.NoError(t, q.Push(ctx, rating.NewEvent(rating.AddComment, i, "")))
	}

	core, logs := observer.New(zap.InfoLevel)
	p := NewProcessor(q, &recordingSink{}, zap.New(core))
	p.popTimeout = 50 * time.Millisecond

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go p.Run(runCtx, 2)

	require.Eventually(t, func() bool {
		return logs.FilterMessage("rating worker started").Len() == 1
	}, time.Second, 10*time.Millisecond)
	started := logs.FilterMessage("rating worker started").All()
	fields := started[0].ContextMap()
	assert.Equal(t, int64(3), fields["backlog"])
	assert.Equal(t, int64(2), fields["workers"])
}
