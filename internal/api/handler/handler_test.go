package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/greencity/econews_server/config"
	"github.com/greencity/econews_server/internal/api/middleware"
	"github.com/greencity/econews_server/internal/model"
	"github.com/greencity/econews_server/internal/model/dto"
	"github.com/greencity/econews_server/internal/pkg/rating"
	"github.com/greencity/econews_server/internal/pkg/response"
	"github.com/greencity/econews_server/internal/repository"
	"github.com/greencity/econews_server/internal/service"
	"github.com/greencity/econews_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testJWTSecret = "test-secret-key"

// testContext 本地测试上下文
type testContext struct {
	DB *gorm.DB
}

type noopHook struct{}

func (noopHook) Fire(rating.Kind, int64, string) {}

type recordingNotifier struct {
	published []*dto.LikeCountMessage
}

func (n *recordingNotifier) PublishLikeCount(ctx context.Context, msg *dto.LikeCountMessage) error {
	n.published = append(n.published, msg)
	return nil
}

func newCommentService(db *gorm.DB, notifier service.LikeNotifier) *service.CommentService {
	return service.NewCommentService(
		repository.NewCommentRepository(db),
		repository.NewCommentLikeRepository(db),
		repository.NewArticleRepository(db),
		repository.NewUserRepository(db),
		noopHook{},
		notifier,
		&config.Config{Comment: config.CommentConfig{MaxLength: 200}},
		zap.NewNop(),
	)
}

// mockAuth 模拟认证中间件
func mockAuth(userID int64) gin.HandlerFunc {
	return mockAuthRole(userID, model.RoleUser)
}

func mockAuthRole(userID int64, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Set(middleware.RoleKey, role)
		c.Next()
	}
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

// parseData 将 data 字段解析到 out
func parseData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func setupDB(t *testing.T) *testContext {
	t.Helper()
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })
	return &testContext{DB: db}
}
