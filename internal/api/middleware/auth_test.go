package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greencity/econews_server/internal/model"
	"github.com/greencity/econews_server/internal/pkg/jwt"
	"github.com/greencity/econews_server/internal/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testJWTSecret = "test-secret-key-for-middleware"

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

func mustToken(t *testing.T, userID int64, role, secret string, hours int) string {
	t.Helper()
	token, err := jwt.GenerateToken(userID, role, secret, hours)
	require.NoError(t, err)
	return token
}

// viewerRouter 返回解析出的身份
func viewerRouter(mw ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(mw...)
	router.GET("/test", func(c *gin.Context) {
		v := GetViewer(c)
		c.JSON(http.StatusOK, gin.H{"user_id": v.UserID, "role": v.Role, "token": v.Token, "anonymous": v.Anonymous()})
	})
	return router
}

func serve(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuth_Success(t *testing.T) {
	token := mustToken(t, 123, model.RoleModerator, testJWTSecret, 24)

	w := serve(viewerRouter(Auth(testJWTSecret)), "Bearer "+token)
	require.Equal(t, http.StatusOK, w.Code)

	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, float64(123), result["user_id"])
	assert.Equal(t, model.RoleModerator, result["role"])
	assert.Equal(t, token, result["token"])
	assert.False(t, result["anonymous"].(bool))
}

func TestAuth_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no bearer prefix", "some-token-without-bearer"},
		{"invalid token", "Bearer invalid-token"},
		{"wrong secret", "Bearer " + mustToken(t, 123, model.RoleUser, "different-secret", 24)},
		{"expired", "Bearer " + mustToken(t, 123, model.RoleUser, testJWTSecret, -1)},
	}

	router := viewerRouter(Auth(testJWTSecret))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, response.CodeAuthFailed, parseResponse(t, w).Code)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		anonymous bool
	}{
		{"valid token", "Bearer " + mustToken(t, 456, model.RoleUser, testJWTSecret, 24), false},
		{"no header", "", true},
		{"invalid token", "Bearer invalid-token", true},
		{"invalid format", "no-bearer-prefix", true},
	}

	router := viewerRouter(OptionalAuth(testJWTSecret))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, tt.header)
			require.Equal(t, http.StatusOK, w.Code)

			var result map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
			assert.Equal(t, tt.anonymous, result["anonymous"].(bool))
			if !tt.anonymous {
				assert.Equal(t, float64(456), result["user_id"])
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		wantCode int
	}{
		{"moderator allowed", model.RoleModerator, http.StatusOK},
		{"admin allowed", model.RoleAdmin, http.StatusOK},
		{"user denied", model.RoleUser, http.StatusForbidden},
	}

	router := viewerRouter(Auth(testJWTSecret), RequireRole(model.RoleModerator, model.RoleAdmin))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, "Bearer "+mustToken(t, 1, tt.role, testJWTSecret, 24))
			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantCode == http.StatusForbidden {
				assert.Equal(t, response.CodePermissionDenied, parseResponse(t, w).Code)
			}
		})
	}
}

func TestGetUserID(t *testing.T) {
	tests := []struct {
		name   string
		value  interface{}
		set    bool
		wantID int64
		wantOK bool
	}{
		{"not set", nil, false, 0, false},
		{"wrong type", "not-an-int64", true, 0, false},
		{"int64", int64(789), true, 789, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			if tt.set {
				c.Set(UserIDKey, tt.value)
			}
			id, ok := GetUserID(c)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}
