package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// StringArray 用于 JSON 数组字段
type StringArray []string

func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = []string{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}
	return nil
}

// Article 环保新闻
type Article struct {
	ID        int64       `gorm:"primaryKey" json:"id"`
	AuthorID  int64       `gorm:"not null;index" json:"author_id"`
	Title     string      `gorm:"size:200;not null" json:"title"`
	Text      string      `gorm:"type:text" json:"text"`
	Tags      StringArray `gorm:"type:json" json:"tags"`
	CreatedAt time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (Article) TableName() string {
	return "eco_news"
}
