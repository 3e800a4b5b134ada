package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/greencity/econews_server/internal/model"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create 创建评论
func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// GetByID 根据 ID 获取评论
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateText 修改正文并刷新 modified_at
func (r *CommentRepository) UpdateText(ctx context.Context, id int64, text string, modifiedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&model.Comment{}).Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"text":        text,
			"modified_at": modifiedAt,
		}).Error
}

// SoftDeleteWithReplies 在同一事务中先标记直接回复，再标记评论本身
func (r *CommentRepository) SoftDeleteWithReplies(ctx context.Context, id int64) (int64, error) {
	var replies int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Comment{}).
			Where("parent_comment_id = ?", id).
			UpdateColumn("deleted", true)
		if result.Error != nil {
			return result.Error
		}
		replies = result.RowsAffected

		return tx.Model(&model.Comment{}).
			Where("id = ?", id).
			UpdateColumn("deleted", true).Error
	})
	return replies, err
}

// ListRoots 获取新闻的一级评论，按创建时间倒序
func (r *CommentRepository) ListRoots(ctx context.Context, articleID int64, includeDeleted bool, page, pageSize int) ([]*model.Comment, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("article_id = ? AND parent_comment_id IS NULL", articleID)
	if !includeDeleted {
		query = query.Where("deleted = ?", false)
	}
	return r.paginate(query, page, pageSize)
}

// ListReplies 获取一级评论下的回复，按创建时间倒序
func (r *CommentRepository) ListReplies(ctx context.Context, parentID int64, includeDeleted bool, page, pageSize int) ([]*model.Comment, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("parent_comment_id = ?", parentID)
	if !includeDeleted {
		query = query.Where("deleted = ?", false)
	}
	return r.paginate(query, page, pageSize)
}

// paginate page 从 0 开始
func (r *CommentRepository) paginate(query *gorm.DB, page, pageSize int) ([]*model.Comment, int64, error) {
	var comments []*model.Comment
	var total int64

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Preload("Author").
		Order("created_at DESC").Order("id DESC").
		Offset(page * pageSize).Limit(pageSize).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// CountReplies 统计直接回复数（包含已删除）
func (r *CommentRepository) CountReplies(ctx context.Context, parentID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("parent_comment_id = ?", parentID).
		Count(&count).Error
	return count, err
}

// CountRepliesByParentIDs 批量统计回复数
func (r *CommentRepository) CountRepliesByParentIDs(ctx context.Context, parentIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(parentIDs))
	if len(parentIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ParentCommentID int64
		Total           int64
	}
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Select("parent_comment_id, COUNT(*) AS total").
		Where("parent_comment_id IN ?", parentIDs).
		Group("parent_comment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.ParentCommentID] = row.Total
	}
	return counts, nil
}

// CountActiveByArticleID 统计新闻下未删除的评论数（一级评论和回复）
func (r *CommentRepository) CountActiveByArticleID(ctx context.Context, articleID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Comment{}).
		Where("article_id = ? AND deleted = ?", articleID, false).
		Count(&count).Error
	return count, err
}
