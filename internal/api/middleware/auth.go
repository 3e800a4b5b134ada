package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/greencity/econews_server/internal/pkg/jwt"
	"github.com/greencity/econews_server/internal/pkg/response"
	"github.com/greencity/econews_server/internal/service"
)

const (
	UserIDKey = "userID"
	RoleKey   = "role"
	TokenKey  = "token"
)

// Auth JWT 认证中间件
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AuthError(c, "missing authorization header")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.AuthError(c, "malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			response.AuthError(c, err.Error())
			c.Abort()
			return
		}

		setIdentity(c, claims, tokenString)
		c.Next()
	}
}

// OptionalAuth 可选认证中间件（不强制要求登录）
func OptionalAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.Next()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err == nil {
			setIdentity(c, claims, tokenString)
		}

		c.Next()
	}
}

// RequireRole 必须在 Auth 之后使用
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(RoleKey)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		response.PermissionError(c, "insufficient role")
		c.Abort()
	}
}

func setIdentity(c *gin.Context, claims *jwt.Claims, token string) {
	c.Set(UserIDKey, claims.UserID)
	c.Set(RoleKey, claims.Role)
	c.Set(TokenKey, token)
}

// GetUserID 从上下文获取用户 ID
func GetUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(int64)
	return id, ok
}

// GetViewer 当前请求的用户，未登录时为匿名
func GetViewer(c *gin.Context) service.Viewer {
	userID, ok := GetUserID(c)
	if !ok {
		return service.Viewer{}
	}
	return service.Viewer{
		UserID: userID,
		Role:   c.GetString(RoleKey),
		Token:  c.GetString(TokenKey),
	}
}
