package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/greencity/econews_server/internal/model"
)

type ArticleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) Create(ctx context.Context, article *model.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

// GetByID 根据 ID 获取新闻，不存在时返回 gorm.ErrRecordNotFound
func (r *ArticleRepository) GetByID(ctx context.Context, id int64) (*model.Article, error) {
	var article model.Article
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&article).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}
