package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/greencity/econews_server/config"
	"github.com/greencity/econews_server/internal/model"
	"github.com/greencity/econews_server/internal/model/dto"
	"github.com/greencity/econews_server/internal/pkg/jwt"
	"github.com/greencity/econews_server/internal/repository"
	"github.com/greencity/econews_server/internal/testutil"
)

const testSecret = "test-secret-key-for-testing"

func setupAuthService(t *testing.T) (*AuthService, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	userRepo := repository.NewUserRepository(db)

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:      testSecret,
			ExpireHours: 24,
		},
	}

	service := NewAuthService(userRepo, cfg)

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}

	return service, cleanup
}

func TestAuthService_Register_Success(t *testing.T) {
	service, cleanup := setupAuthService(t)
	defer cleanup()

	req := &dto.RegisterRequest{
		Email:    "newuser@example.com",
		Username: "newuser",
		Password: "password123",
	}

	resp, err := service.Register(context.Background(), req)
	require.NoError(t, err)
	assert.NotZero(t, resp.UserID)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	service, cleanup := setupAuthService(t)
	defer cleanup()

	ctx := context.Background()
	_, err := service.Register(ctx, &dto.RegisterRequest{Email: "dup@example.com", Username: "first", Password: "password123"})
	require.NoError(t, err)

	_, err = service.Register(ctx, &dto.RegisterRequest{Email: "dup@example.com", Username: "second", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	service, cleanup := setupAuthService(t)
	defer cleanup()

	ctx := context.Background()
	_, err := service.Register(ctx, &dto.RegisterRequest{Email: "a@example.com", Username: "taken", Password: "password123"})
	require.NoError(t, err)

	_, err = service.Register(ctx, &dto.RegisterRequest{Email: "b@example.com", Username: "taken", Password: "password123"})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestAuthService_Login_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := testutil.TestUser(t, db,
		testutil.WithEmail("mod@example.com"),
		testutil.WithPasswordHash(string(hash)),
		testutil.WithRole(model.RoleModerator))

	service := NewAuthService(repository.NewUserRepository(db), &config.Config{
		JWT: config.JWTConfig{Secret: testSecret, ExpireHours: 1},
	})

	resp, err := service.Login(context.Background(), &dto.LoginRequest{Email: "mod@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, model.RoleModerator, resp.User.Role)

	claims, err := jwt.ParseToken(resp.Token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.RoleModerator, claims.Role)
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	service, cleanup := setupAuthService(t)
	defer cleanup()

	ctx := context.Background()
	_, err := service.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Register(ctx, &dto.RegisterRequest{Email: "real@example.com", Username: "real", Password: "password123"})
	require.NoError(t, err)

	_, err = service.Login(ctx, &dto.LoginRequest{Email: "real@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
