package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/greencity/econews_server/internal/api/middleware"
	"github.com/greencity/econews_server/internal/model/dto"
	"github.com/greencity/econews_server/internal/pkg/response"
	"github.com/greencity/econews_server/internal/service"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(commentService *service.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
	}
}

// Create 发表评论或回复
// POST /api/v1/econews/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	if viewer.Anonymous() {
		response.AuthError(c, "")
		return
	}

	articleID, ok := parseID(c, "id")
	if !ok {
		response.ParamError(c, "invalid eco news id")
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), viewer, articleID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, comment)
}

// ListAll 全部一级评论，包含已删除
// GET /api/v1/econews/:id/comments
func (h *CommentHandler) ListAll(c *gin.Context) {
	h.listRoots(c, true)
}

// ListActive 未删除的一级评论
// GET /api/v1/econews/:id/comments/active
func (h *CommentHandler) ListActive(c *gin.Context) {
	h.listRoots(c, false)
}

func (h *CommentHandler) listRoots(c *gin.Context, includeDeleted bool) {
	articleID, ok := parseID(c, "id")
	if !ok {
		response.ParamError(c, "invalid eco news id")
		return
	}
	page, size, ok := parsePage(c)
	if !ok {
		response.ParamError(c, "invalid page parameters")
		return
	}

	page, size = service.NormalizePage(page, size)
	items, total, err := h.commentService.ListRootComments(c.Request.Context(), articleID, page, size, middleware.GetViewer(c), includeDeleted)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessPage(c, total, page, size, items)
}

// Count 新闻评论数
// GET /api/v1/econews/:id/comments/count
func (h *CommentHandler) Count(c *gin.Context) {
	articleID, ok := parseID(c, "id")
	if !ok {
		response.ParamError(c, "invalid eco news id")
		return
	}

	count, err := h.commentService.CountForArticle(c.Request.Context(), articleID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"count": count})
}

// ListAllReplies 全部回复，包含已删除
// GET /api/v1/comments/:id/replies
func (h *CommentHandler) ListAllReplies(c *gin.Context) {
	h.listReplies(c, true)
}

// ListActiveReplies 未删除的回复
// GET /api/v1/comments/:id/replies/active
func (h *CommentHandler) ListActiveReplies(c *gin.Context) {
	h.listReplies(c, false)
}

func (h *CommentHandler) listReplies(c *gin.Context, includeDeleted bool) {
	parentID, ok := parseID(c, "id")
	if !ok {
		response.ParamError(c, "invalid comment id")
		return
	}
	page, size, ok := parsePage(c)
	if !ok {
		response.ParamError(c, "invalid page parameters")
		return
	}

	page, size = service.NormalizePage(page, size)
	items, total, err := h.commentService.ListReplies(c.Request.Context(), parentID, page, size, middleware.GetViewer(c), includeDeleted)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessPage(c, total, page, size, items)
}

// CountReplies 回复数
// GET /api/v1/comments/:id/replies/count
func (h *CommentHandler) CountReplies(c *gin.Context) {
	commentID, ok := parseID(c, "id")
	if !ok {
		response.ParamError(c, "invalid comment id")
		return
	}

	count, err := h.commentService.CountReplies(c.Request.Context(), commentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"count": count})
}

// Update 修改评论
// PATCH /api/v1/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	if viewer.Anonymous() {
		response.AuthError(c, "")
		return
	}

	commentID, ok := parseID(c, "id")
	if !ok {
		response.ParamError(c, "invalid comment id")
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.commentService.Update(c.Request.Context(), viewer, commentID, req.Text); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "comment updated", nil)
}

// Delete 删除评论
// DELETE /api/v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	if viewer.Anonymous() {
		response.AuthError(c, "")
		return
	}

	commentID, ok := parseID(c, "id")
	if !ok {
		response.ParamError(c, "invalid comment id")
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), viewer, commentID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "comment deleted", nil)
}

// Like 点赞或取消点赞
// POST /api/v1/comments/:id/like
func (h *CommentHandler) Like(c *gin.Context) {
	viewer := middleware.GetViewer(c)
	if viewer.Anonymous() {
		response.AuthError(c, "")
		return
	}

	commentID, ok := parseID(c, "id")
	if !ok {
		response.ParamError(c, "invalid comment id")
		return
	}

	liked, err := h.commentService.ToggleLike(c.Request.Context(), viewer, commentID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, gin.H{"liked": liked})
}
