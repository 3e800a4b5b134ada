package service

import "github.com/greencity/econews_server/internal/model"

// Viewer 当前请求的用户，UserID 为 0 表示匿名
type Viewer struct {
	UserID int64
	Role   string
	Token  string
}

func (v Viewer) Anonymous() bool {
	return v.UserID == 0
}

func (v Viewer) IsModerator() bool {
	return model.IsModerator(v.Role)
}

func (v Viewer) IsAdmin() bool {
	return v.Role == model.RoleAdmin
}
