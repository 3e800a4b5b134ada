package service

import (
	"context"
	"math"
	"time"

	"github.com/greencity/econews_server/internal/model"
	"github.com/greencity/econews_server/internal/model/dto"
	"github.com/greencity/econews_server/internal/pkg/text"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	// MaxPage 保证 page*pageSize 不溢出
	MaxPage = math.MaxInt32 / MaxPageSize
)

// StatusOf 已删除优先，其次修改时间晚于创建时间为已编辑
func StatusOf(c *model.Comment) dto.CommentStatus {
	switch {
	case c.Deleted:
		return dto.StatusDeleted
	case c.ModifiedAt.After(c.CreatedAt):
		return dto.StatusEdited
	default:
		return dto.StatusOriginal
	}
}

// NormalizePage page 从 0 开始
func NormalizePage(page, pageSize int) (int, int) {
	if page < 0 {
		page = 0
	}
	if page > MaxPage {
		page = MaxPage
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// ListRootComments 新闻的一级评论，includeDeleted 为管理视图
func (s *CommentService) ListRootComments(ctx context.Context, articleID int64, page, pageSize int, viewer Viewer, includeDeleted bool) ([]*dto.CommentItem, int64, error) {
	if includeDeleted {
		if err := s.ensureArticle(ctx, articleID); err != nil {
			return nil, 0, err
		}
	}

	page, pageSize = NormalizePage(page, pageSize)
	comments, total, err := s.commentRepo.ListRoots(ctx, articleID, includeDeleted, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items, err := s.buildItems(ctx, comments, viewer, true)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListReplies 一级评论下的回复，不带回复数
func (s *CommentService) ListReplies(ctx context.Context, parentID int64, page, pageSize int, viewer Viewer, includeDeleted bool) ([]*dto.CommentItem, int64, error) {
	if _, err := s.getComment(ctx, parentID); err != nil {
		return nil, 0, err
	}

	page, pageSize = NormalizePage(page, pageSize)
	comments, total, err := s.commentRepo.ListReplies(ctx, parentID, includeDeleted, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items, err := s.buildItems(ctx, comments, viewer, false)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// buildItems 批量查询点赞数、当前用户点赞状态和回复数
func (s *CommentService) buildItems(ctx context.Context, comments []*model.Comment, viewer Viewer, withReplies bool) ([]*dto.CommentItem, error) {
	items := make([]*dto.CommentItem, 0, len(comments))
	if len(comments) == 0 {
		return items, nil
	}

	ids := make([]int64, len(comments))
	for i, c := range comments {
		ids[i] = c.ID
	}

	likes, err := s.likeRepo.CountByCommentIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	liked := map[int64]bool{}
	if !viewer.Anonymous() {
		liked, err = s.likeRepo.LikedCommentIDs(ctx, viewer.UserID, ids)
		if err != nil {
			return nil, err
		}
	}

	var replies map[int64]int64
	if withReplies {
		replies, err = s.commentRepo.CountRepliesByParentIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	for _, c := range comments {
		item := s.buildCommentItem(c)
		item.Likes = int(likes[c.ID])
		item.CurrentLiked = liked[c.ID]
		if withReplies {
			n := int(replies[c.ID])
			item.Replies = &n
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *CommentService) buildCommentItem(c *model.Comment) *dto.CommentItem {
	item := &dto.CommentItem{
		ID:         c.ID,
		Text:       c.Text,
		Status:     StatusOf(c),
		Author:     buildAuthor(c.Author),
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
		ModifiedAt: c.ModifiedAt.Format(time.RFC3339),
	}

	if s.cfg.Comment.RenderMarkdown {
		item.TextHTML = text.Render(c.Text)
	}

	return item
}

func buildAuthor(u *model.User) *dto.CommentAuthor {
	if u == nil {
		return nil
	}
	return &dto.CommentAuthor{
		ID:                 u.ID,
		Name:               u.Username,
		ProfilePicturePath: u.ProfilePicturePath,
	}
}
