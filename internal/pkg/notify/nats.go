package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// natsConn *nats.Conn 的子集
type natsConn interface {
	Publish(subj string, data []byte) error
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// Connect 连接 NATS，连接失败直接返回
func Connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
		nats.RetryOnFailedConnect(false),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	return nc, nil
}

// Subject 主题转 subject，/topic/5/comment -> prefix.topic.5.comment
func Subject(prefix, topic string) string {
	return prefix + "." + strings.ReplaceAll(strings.Trim(topic, "/"), "/", ".")
}

// NATSPublisher NATS 发布者
type NATSPublisher struct {
	conn   natsConn
	prefix string
}

func NewNATSPublisher(conn natsConn, prefix string) *NATSPublisher {
	return &NATSPublisher{conn: conn, prefix: prefix}
}

// Publish 发布消息
func (p *NATSPublisher) Publish(ctx context.Context, topic string, payload interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encode(topic, payload)
	if err != nil {
		return err
	}
	return p.conn.Publish(Subject(p.prefix, topic), data)
}

// NATSSubscriber NATS 订阅者
type NATSSubscriber struct {
	conn   natsConn
	prefix string
	log    *zap.Logger
}

func NewNATSSubscriber(conn natsConn, prefix string, log *zap.Logger) *NATSSubscriber {
	return &NATSSubscriber{conn: conn, prefix: prefix, log: log}
}

// Subscribe 订阅 prefix.> 下的全部消息，阻塞直到 ctx 结束
func (s *NATSSubscriber) Subscribe(ctx context.Context, handler Handler) error {
	sub, err := s.conn.Subscribe(s.prefix+".>", func(m *nats.Msg) {
		msg, err := decode(m.Data)
		if err != nil {
			s.log.Warn("invalid notify message", zap.String("subject", m.Subject), zap.Error(err))
			return
		}
		handler(msg)
	})
	if err != nil {
		return err
	}
	defer func() { _ = sub.Unsubscribe() }()

	<-ctx.Done()
	return ctx.Err()
}
