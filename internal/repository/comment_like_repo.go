package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/greencity/econews_server/internal/model"
)

type CommentLikeRepository struct {
	db *gorm.DB
}

func NewCommentLikeRepository(db *gorm.DB) *CommentLikeRepository {
	return &CommentLikeRepository{db: db}
}

// Toggle 已点赞则取消，否则点赞，返回操作后的状态
func (r *CommentLikeRepository) Toggle(ctx context.Context, commentID, userID int64) (bool, error) {
	liked := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.CommentLike{}).
			Where("comment_id = ? AND user_id = ?", commentID, userID).
			Count(&count).Error; err != nil {
			return err
		}

		if count > 0 {
			return tx.Where("comment_id = ? AND user_id = ?", commentID, userID).
				Delete(&model.CommentLike{}).Error
		}

		liked = true
		return tx.Create(&model.CommentLike{CommentID: commentID, UserID: userID}).Error
	})
	if err != nil {
		return false, err
	}
	return liked, nil
}

// Exists 用户是否点赞过该评论
func (r *CommentLikeRepository) Exists(ctx context.Context, commentID, userID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CommentLike{}).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Count(&count).Error
	return count > 0, err
}

// Count 评论点赞数
func (r *CommentLikeRepository) Count(ctx context.Context, commentID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.CommentLike{}).
		Where("comment_id = ?", commentID).
		Count(&count).Error
	return count, err
}

// CountByCommentIDs 批量统计点赞数
func (r *CommentLikeRepository) CountByCommentIDs(ctx context.Context, commentIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(commentIDs))
	if len(commentIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		CommentID int64
		Total     int64
	}
	err := r.db.WithContext(ctx).Model(&model.CommentLike{}).
		Select("comment_id, COUNT(*) AS total").
		Where("comment_id IN ?", commentIDs).
		Group("comment_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.CommentID] = row.Total
	}
	return counts, nil
}

// LikedCommentIDs 返回用户在给定评论中点赞过的集合
func (r *CommentLikeRepository) LikedCommentIDs(ctx context.Context, userID int64, commentIDs []int64) (map[int64]bool, error) {
	liked := make(map[int64]bool)
	if len(commentIDs) == 0 {
		return liked, nil
	}

	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.CommentLike{}).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Pluck("comment_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
