package rating

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Pusher 事件入队
type Pusher interface {
	Push(ctx context.Context, ev *Event) error
}

// Hook 评论服务使用的积分回调，不阻塞调用方，失败只记日志
type Hook struct {
	queue   Pusher
	log     *zap.Logger
	timeout time.Duration
}

func NewHook(queue Pusher, log *zap.Logger) *Hook {
	return &Hook{
		queue:   queue,
		log:     log,
		timeout: 5 * time.Second,
	}
}

// Fire 异步投递事件
func (h *Hook) Fire(kind Kind, userID int64, token string) {
	ev := NewEvent(kind, userID, token)
	go func() {
		// 与请求的 context 无关，请求结束后依然投递
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		if err := h.queue.Push(ctx, ev); err != nil {
			h.log.Warn("rating event dropped",
				zap.String("event_id", ev.ID),
				zap.String("kind", string(ev.Kind)),
				zap.Int64("user_id", ev.UserID),
				zap.Error(err))
		}
	}()
}
