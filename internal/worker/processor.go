package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/greencity/econews_server/internal/pkg/rating"
)

// EventSource 事件来源，超时返回 nil
type EventSource interface {
	Pop(ctx context.Context, timeout time.Duration) (*rating.Event, error)
}

// Backlog 可选，支持时启动时记录积压数量
type Backlog interface {
	Length(ctx context.Context) (int64, error)
}

// EventSink 事件去向
type EventSink interface {
	Send(ctx context.Context, ev *rating.Event) error
}

// Processor 积分事件处理器，失败只记录日志，不重试
type Processor struct {
	source      EventSource
	sink        EventSink
	log         *zap.Logger
	popTimeout  time.Duration
	sendTimeout time.Duration
}

// NewProcessor 创建积分事件处理器
func NewProcessor(source EventSource, sink EventSink, log *zap.Logger) *Processor {
	return &Processor{
		source:      source,
		sink:        sink,
		log:         log,
		popTimeout:  5 * time.Second,
		sendTimeout: 10 * time.Second,
	}
}

// Process 上报单个事件
func (p *Processor) Process(ctx context.Context, ev *rating.Event) error {
	ctx, cancel := context.WithTimeout(ctx, p.sendTimeout)
	defer cancel()

	start := time.Now()
	if err := p.sink.Send(ctx, ev); err != nil {
		return err
	}
	p.log.Debug("rating event sent",
		zap.String("event_id", ev.ID),
		zap.String("kind", string(ev.Kind)),
		zap.Duration("elapsed", time.Since(start)))
	return nil
}

// Run 启动 workers 个循环，ctx 取消后等待全部退出
func (p *Processor) Run(ctx context.Context, workers int) {
	if workers <= 0 {
		workers = 1
	}
	p.logBacklog(ctx, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			p.loop(ctx, workerID)
		}(i)
	}
	wg.Wait()
}

func (p *Processor) logBacklog(ctx context.Context, workers int) {
	b, ok := p.source.(Backlog)
	if !ok {
		return
	}
	n, err := b.Length(ctx)
	if err != nil {
		p.log.Warn("failed to read rating backlog", zap.Error(err))
		return
	}
	p.log.Info("rating worker started", zap.Int("workers", workers), zap.Int64("backlog", n))
}

func (p *Processor) loop(ctx context.Context, workerID int) {
	log := p.log.With(zap.Int("worker", workerID))
	for {
		select {
		case <-ctx.Done():
			log.Info("worker shutting down")
			return
		default:
		}

		ev, err := p.source.Pop(ctx, p.popTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Warn("failed to pop rating event", zap.Error(err))
			// 避免 redis 不可用时空转
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		if ev == nil {
			continue // 超时，继续等待
		}

		if err := p.Process(ctx, ev); err != nil {
			log.Warn("rating event failed",
				zap.String("event_id", ev.ID),
				zap.String("kind", string(ev.Kind)),
				zap.Int64("user_id", ev.UserID),
				zap.Error(err))
		}
	}
}
