package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/greencity/econews_server/internal/model"
	"github.com/greencity/econews_server/internal/testutil"
)

func TestUserRepository_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	email := "test@example.com"
	user := &model.User{Username: "alice", Email: &email}
	err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	found, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, found.Role)
}

func TestUserRepository_GetByID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	created := testutil.TestUser(t, db)

	found, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, created.Username, found.Username)
}

func TestUserRepository_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	_, err := repo.GetByID(context.Background(), 99999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	email := "unique@example.com"
	testutil.TestUser(t, db, testutil.WithEmail(email))

	found, err := repo.GetByEmail(context.Background(), email)
	require.NoError(t, err)
	assert.Equal(t, email, *found.Email)
}

func TestUserRepository_UpdateRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)
	user := testutil.TestUser(t, db)

	require.NoError(t, repo.UpdateRole(context.Background(), user.ID, model.RoleModerator))

	found, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleModerator, found.Role)
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	email := "exists@example.com"
	testutil.TestUser(t, db, testutil.WithEmail(email))

	exists, err := repo.ExistsByEmail(context.Background(), email)
	require.NoError(t, err)
	assert.True(t, exists)

	notExists, err := repo.ExistsByEmail(context.Background(), "notexists@example.com")
	require.NoError(t, err)
	assert.False(t, notExists)
}

func TestUserRepository_ExistsByUsername(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewUserRepository(db)

	testutil.TestUser(t, db, testutil.WithUsername("existinguser"))

	exists, err := repo.ExistsByUsername(context.Background(), "existinguser")
	require.NoError(t, err)
	assert.True(t, exists)

	notExists, err := repo.ExistsByUsername(context.Background(), "nobody")
	require.NoError(t, err)
	assert.False(t, notExists)
}
