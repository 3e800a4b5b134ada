package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/greencity/econews_server/internal/model"
)

var seq int64

func nextSeq() int64 {
	return atomic.AddInt64(&seq, 1)
}

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	n := nextSeq()
	email := fmt.Sprintf("test_%d@example.com", n)
	passwordHash := "$2a$10$abcdefghijklmnopqrstuvwxyz123456" // bcrypt hash placeholder
	user := &model.User{
		Username:     fmt.Sprintf("testuser_%d", n),
		Email:        &email,
		PasswordHash: &passwordHash,
		Role:         model.RoleUser,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// WithPasswordHash 设置密码哈希
func WithPasswordHash(hash string) func(*model.User) {
	return func(u *model.User) {
		u.PasswordHash = &hash
	}
}

// WithRole 设置角色
func WithRole(role string) func(*model.User) {
	return func(u *model.User) {
		u.Role = role
	}
}

// WithProfilePicture 设置头像
func WithProfilePicture(path string) func(*model.User) {
	return func(u *model.User) {
		u.ProfilePicturePath = path
	}
}

// TestArticle 创建测试新闻
func TestArticle(t *testing.T, db *gorm.DB, authorID int64) *model.Article {
	t.Helper()

	article := &model.Article{
		AuthorID: authorID,
		Title:    fmt.Sprintf("Eco News %d", nextSeq()),
		Text:     "Plant more trees",
		Tags:     model.StringArray{"news"},
	}

	if err := db.Create(article).Error; err != nil {
		t.Fatalf("Failed to create test article: %v", err)
	}

	return article
}

// TestComment 创建测试一级评论
func TestComment(t *testing.T, db *gorm.DB, authorID, articleID int64, text string, opts ...func(*model.Comment)) *model.Comment {
	t.Helper()

	now := time.Now()
	comment := &model.Comment{
		AuthorID:   authorID,
		ArticleID:  articleID,
		Text:       text,
		CreatedAt:  now,
		ModifiedAt: now,
	}

	for _, opt := range opts {
		opt(comment)
	}

	if err := db.Create(comment).Error; err != nil {
		t.Fatalf("Failed to create test comment: %v", err)
	}

	return comment
}

// TestReply 创建测试回复
func TestReply(t *testing.T, db *gorm.DB, authorID, articleID, parentID int64, text string, opts ...func(*model.Comment)) *model.Comment {
	t.Helper()

	return TestComment(t, db, authorID, articleID, text, append([]func(*model.Comment){
		func(c *model.Comment) { c.ParentCommentID = &parentID },
	}, opts...)...)
}

// WithCreatedAt 设置创建时间，修改时间同步
func WithCreatedAt(at time.Time) func(*model.Comment) {
	return func(c *model.Comment) {
		c.CreatedAt = at
		c.ModifiedAt = at
	}
}

// WithModifiedAt 设置修改时间
func WithModifiedAt(at time.Time) func(*model.Comment) {
	return func(c *model.Comment) {
		c.ModifiedAt = at
	}
}

// WithDeleted 标记为已删除
func WithDeleted() func(*model.Comment) {
	return func(c *model.Comment) {
		c.Deleted = true
	}
}

// TestLike 创建测试点赞
func TestLike(t *testing.T, db *gorm.DB, commentID, userID int64) *model.CommentLike {
	t.Helper()

	like := &model.CommentLike{
		CommentID: commentID,
		UserID:    userID,
	}

	if err := db.Create(like).Error; err != nil {
		t.Fatalf("Failed to create test like: %v", err)
	}

	return like
}
