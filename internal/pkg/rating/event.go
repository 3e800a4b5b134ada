// Package rating 评论增删对外部积分服务的异步通知
package rating

import (
	"time"

	"github.com/google/uuid"
)

// Kind 积分事件类型
type Kind string

const (
	AddComment    Kind = "ADD_COMMENT"
	DeleteComment Kind = "DELETE_COMMENT"
)

// Event 积分事件
type Event struct {
	ID     string    `json:"id"`
	Kind   Kind      `json:"kind"`
	UserID int64     `json:"user_id"`
	Token  string    `json:"-"`
	At     time.Time `json:"at"`
}

// queued 队列中的消息，token 需要随事件转发给积分服务
type queued struct {
	Event
	Token string `json:"token,omitempty"`
}

func NewEvent(kind Kind, userID int64, token string) *Event {
	return &Event{
		ID:     uuid.NewString(),
		Kind:   kind,
		UserID: userID,
		Token:  token,
		At:     time.Now().UTC(),
	}
}
