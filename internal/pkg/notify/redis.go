package notify

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisPublisher Redis 发布者
type RedisPublisher struct {
	client  *redis.Client
	channel string
}

func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel}
}

// Publish 发布消息
func (p *RedisPublisher) Publish(ctx context.Context, topic string, payload interface{}) error {
	data, err := encode(topic, payload)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, data).Err()
}

// RedisSubscriber Redis 订阅者
type RedisSubscriber struct {
	client  *redis.Client
	channel string
	log     *zap.Logger
}

func NewRedisSubscriber(client *redis.Client, channel string, log *zap.Logger) *RedisSubscriber {
	return &RedisSubscriber{client: client, channel: channel, log: log}
}

// Subscribe 阻塞直到 ctx 结束
func (s *RedisSubscriber) Subscribe(ctx context.Context, handler Handler) error {
	pubsub := s.client.Subscribe(ctx, s.channel)
	defer pubsub.Close()

	// 等待订阅确认，之后发布的消息不会丢
	if _, err := pubsub.Receive(ctx); err != nil {
		return err
	}

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}

			msg, err := decode([]byte(m.Payload))
			if err != nil {
				s.log.Warn("invalid notify message", zap.Error(err))
				continue
			}

			handler(msg)
		}
	}
}
