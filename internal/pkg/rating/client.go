package rating

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/greencity/econews_server/config"
)

// Client 调用外部积分服务
type Client struct {
	baseURL    string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
	log        *zap.Logger
}

func NewClient(cfg *config.RatingConfig, log *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "rating",
		Timeout: cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Info("circuit-breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		cb:         cb,
		log:        log,
	}
}

type eventRequest struct {
	EventID string `json:"event_id"`
	Kind    Kind   `json:"kind"`
	UserID  int64  `json:"user_id"`
}

// Send 上报事件，熔断打开时直接返回 gobreaker.ErrOpenState
func (c *Client) Send(ctx context.Context, ev *Event) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.post(ctx, ev)
	})
	return err
}

func (c *Client) post(ctx context.Context, ev *Event) error {
	body, err := json.Marshal(&eventRequest{
		EventID: ev.ID,
		Kind:    ev.Kind,
		UserID:  ev.UserID,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rating/events", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if ev.Token != "" {
		req.Header.Set("Authorization", "Bearer "+ev.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("rating service returned %d", resp.StatusCode)
	}
	return nil
}
