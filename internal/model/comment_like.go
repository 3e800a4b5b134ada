package model

import (
	"time"
)

// CommentLike 评论点赞，(comment_id, user_id) 唯一
type CommentLike struct {
	CommentID int64     `gorm:"primaryKey;autoIncrement:false" json:"comment_id"`
	UserID    int64     `gorm:"primaryKey;autoIncrement:false;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (CommentLike) TableName() string {
	return "eco_news_comment_likes"
}
