package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/greencity/econews_server/config"
	"github.com/greencity/econews_server/internal/model"
	"github.com/greencity/econews_server/internal/model/dto"
	"github.com/greencity/econews_server/internal/pkg/rating"
	"github.com/greencity/econews_server/internal/pkg/text"
	"github.com/greencity/econews_server/internal/repository"
)

// RatingHook 积分回调，调用方不等待结果
type RatingHook interface {
	Fire(kind rating.Kind, userID int64, token string)
}

// LikeNotifier 点赞数推送
type LikeNotifier interface {
	PublishLikeCount(ctx context.Context, msg *dto.LikeCountMessage) error
}

type CommentService struct {
	commentRepo *repository.CommentRepository
	likeRepo    *repository.CommentLikeRepository
	articleRepo *repository.ArticleRepository
	userRepo    *repository.UserRepository
	hook        RatingHook
	notifier    LikeNotifier
	cfg         *config.Config
	log         *zap.Logger
	now         func() time.Time
}

func NewCommentService(
	commentRepo *repository.CommentRepository,
	likeRepo *repository.CommentLikeRepository,
	articleRepo *repository.ArticleRepository,
	userRepo *repository.UserRepository,
	hook RatingHook,
	notifier LikeNotifier,
	cfg *config.Config,
	log *zap.Logger,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		articleRepo: articleRepo,
		userRepo:    userRepo,
		hook:        hook,
		notifier:    notifier,
		cfg:         cfg,
		log:         log,
		now:         time.Now,
	}
}

// SetClock 替换时钟，测试用
func (s *CommentService) SetClock(now func() time.Time) {
	s.now = now
}

// Create 创建评论，parentCommentID 为 0 表示一级评论
func (s *CommentService) Create(ctx context.Context, viewer Viewer, articleID int64, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if err := s.ensureArticle(ctx, articleID); err != nil {
		return nil, err
	}

	body, err := s.cleanText(req.Text)
	if err != nil {
		return nil, err
	}

	var parentID *int64
	if req.ParentCommentID > 0 {
		parent, err := s.commentRepo.GetByID(ctx, req.ParentCommentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}

		// 只支持一级回复
		if parent.IsReply() {
			return nil, ErrReplyToReply
		}
		if parent.ArticleID != articleID {
			return nil, ErrParentNotInNews
		}
		parentID = &parent.ID
	}

	author, err := s.userRepo.GetByID(ctx, viewer.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	now := s.now()
	comment := &model.Comment{
		Text:            body,
		AuthorID:        author.ID,
		ArticleID:       articleID,
		ParentCommentID: parentID,
		CreatedAt:       now,
		ModifiedAt:      now,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.hook.Fire(rating.AddComment, viewer.UserID, viewer.Token)
	s.log.Info("comment created",
		zap.Int64("comment_id", comment.ID),
		zap.Int64("article_id", articleID),
		zap.Int64("author_id", author.ID))

	return &dto.CommentResponse{
		ID:              comment.ID,
		Text:            comment.Text,
		Author:          buildAuthor(author),
		ParentCommentID: comment.ParentCommentID,
		ArticleID:       comment.ArticleID,
		Status:          StatusOf(comment),
		CreatedAt:       comment.CreatedAt.Format(time.RFC3339),
	}, nil
}

// Update 修改正文，只有作者本人可以修改
func (s *CommentService) Update(ctx context.Context, viewer Viewer, commentID int64, newText string) error {
	body, err := s.cleanText(newText)
	if err != nil {
		return err
	}

	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.AuthorID != viewer.UserID {
		return ErrNotCurrentUser
	}

	return s.commentRepo.UpdateText(ctx, commentID, body, s.now())
}

// Delete 软删除评论及其直接回复，作者或版主/管理员可操作
func (s *CommentService) Delete(ctx context.Context, viewer Viewer, commentID int64) error {
	comment, err := s.getComment(ctx, commentID)
	if err != nil {
		return err
	}

	if comment.AuthorID != viewer.UserID && !viewer.IsModerator() {
		return ErrCommentPermission
	}

	replies, err := s.commentRepo.SoftDeleteWithReplies(ctx, commentID)
	if err != nil {
		return err
	}

	s.hook.Fire(rating.DeleteComment, viewer.UserID, viewer.Token)
	s.log.Info("comment deleted",
		zap.Int64("comment_id", commentID),
		zap.Int64("by", viewer.UserID),
		zap.Int64("replies", replies))

	return nil
}

// ToggleLike 已点赞则取消，否则点赞
func (s *CommentService) ToggleLike(ctx context.Context, viewer Viewer, commentID int64) (bool, error) {
	if _, err := s.getComment(ctx, commentID); err != nil {
		return false, err
	}
	return s.likeRepo.Toggle(ctx, commentID, viewer.UserID)
}

// CountLikes 统计点赞并推送到 /topic/{id}/comment，推送失败不影响返回
func (s *CommentService) CountLikes(ctx context.Context, commentID, userID int64) (*dto.LikeCountMessage, error) {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentGone
		}
		return nil, err
	}

	liked, err := s.likeRepo.Exists(ctx, commentID, userID)
	if err != nil {
		return nil, err
	}
	total, err := s.likeRepo.Count(ctx, commentID)
	if err != nil {
		return nil, err
	}

	msg := &dto.LikeCountMessage{
		ID:          commentID,
		UserID:      userID,
		Liked:       liked,
		AmountLikes: int(total),
	}

	if err := s.notifier.PublishLikeCount(ctx, msg); err != nil {
		s.log.Warn("publish like count failed", zap.Int64("comment_id", commentID), zap.Error(err))
	}

	return msg, nil
}

// CountReplies 直接回复数，包含已删除的
func (s *CommentService) CountReplies(ctx context.Context, commentID int64) (int64, error) {
	if _, err := s.getComment(ctx, commentID); err != nil {
		return 0, err
	}
	return s.commentRepo.CountReplies(ctx, commentID)
}

// CountForArticle 新闻下未删除的评论数，一级评论和回复都计入
func (s *CommentService) CountForArticle(ctx context.Context, articleID int64) (int64, error) {
	if err := s.ensureArticle(ctx, articleID); err != nil {
		return 0, err
	}
	return s.commentRepo.CountActiveByArticleID(ctx, articleID)
}

func (s *CommentService) getComment(ctx context.Context, id int64) (*model.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) ensureArticle(ctx context.Context, id int64) error {
	if _, err := s.articleRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrArticleNotFound
		}
		return err
	}
	return nil
}

// cleanText 去掉首尾空白后校验非空和长度
func (s *CommentService) cleanText(raw string) (string, error) {
	body := text.Normalize(raw)
	if body == "" {
		return "", ErrEmptyText
	}
	if limit := s.cfg.Comment.MaxLength; limit > 0 && text.Length(body) > limit {
		return "", ErrTextTooLong
	}
	return body, nil
}
