package model

import (
	"time"
)

// Comment 新闻评论。ParentCommentID 为空表示一级评论，回复只允许挂在一级评论下。
// ModifiedAt 只在修改正文时更新，不使用 gorm 的自动更新时间。
type Comment struct {
	ID              int64     `gorm:"primaryKey" json:"id"`
	Text            string    `gorm:"type:text;not null" json:"text"`
	AuthorID        int64     `gorm:"not null;index" json:"author_id"`
	ArticleID       int64     `gorm:"not null;index" json:"article_id"`
	ParentCommentID *int64    `gorm:"index" json:"parent_comment_id,omitempty"`
	Deleted         bool      `gorm:"not null;default:false;index" json:"deleted"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	ModifiedAt      time.Time `json:"modified_at"`

	// 关联
	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (Comment) TableName() string {
	return "eco_news_comments"
}

// IsReply 是否为回复
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}
