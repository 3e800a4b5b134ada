package dto

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=32"`
}

// RegisterResponse 注册响应
type RegisterResponse struct {
	UserID int64 `json:"user_id"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

// UserInfo 用户信息（返回给前端）
type UserInfo struct {
	ID                 int64  `json:"id"`
	Username           string `json:"username"`
	Email              string `json:"email,omitempty"`
	ProfilePicturePath string `json:"profile_picture_path"`
	Role               string `json:"role"`
	CreatedAt          string `json:"created_at,omitempty"`
}

// UpdateRoleRequest 修改角色请求
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=ROLE_USER ROLE_MODERATOR ROLE_ADMIN"`
}
