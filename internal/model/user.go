package model

import (
	"time"
)

const (
	RoleUser      = "ROLE_USER"
	RoleModerator = "ROLE_MODERATOR"
	RoleAdmin     = "ROLE_ADMIN"
)

type User struct {
	ID                 int64     `gorm:"primaryKey" json:"id"`
	Username           string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email              *string   `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	PasswordHash       *string   `gorm:"size:255" json:"-"`
	ProfilePicturePath string    `gorm:"size:500" json:"profile_picture_path"`
	Role               string    `gorm:"size:20;not null;default:ROLE_USER" json:"role"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsModerator 版主和管理员可以删除他人评论
func IsModerator(role string) bool {
	return role == RoleModerator || role == RoleAdmin
}
