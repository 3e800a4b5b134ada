// Package notify 点赞数等实时消息的跨实例分发
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/greencity/econews_server/internal/model/dto"
)

// Message 在 broker 上流转的消息，Topic 即客户端订阅的主题
type Message struct {
	Topic   string          `json:"topic"`
	Payload json.RawMessage `json:"payload"`
}

// Publisher 发布到主题，投递最多一次
type Publisher interface {
	Publish(ctx context.Context, topic string, payload interface{}) error
}

// Handler 订阅回调
type Handler func(*Message)

// LikeCountTopic 评论点赞数主题
func LikeCountTopic(commentID int64) string {
	return fmt.Sprintf("/topic/%d/comment", commentID)
}

func encode(topic string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return json.Marshal(&Message{Topic: topic, Payload: raw})
}

func decode(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// LikeNotifier 推送点赞数
type LikeNotifier struct {
	pub Publisher
}

func NewLikeNotifier(pub Publisher) *LikeNotifier {
	return &LikeNotifier{pub: pub}
}

// PublishLikeCount 发布到 /topic/{id}/comment
func (n *LikeNotifier) PublishLikeCount(ctx context.Context, msg *dto.LikeCountMessage) error {
	return n.pub.Publish(ctx, LikeCountTopic(msg.ID), msg)
}
