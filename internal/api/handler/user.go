package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/greencity/econews_server/internal/api/middleware"
	"github.com/greencity/econews_server/internal/model/dto"
	"github.com/greencity/econews_server/internal/pkg/response"
	"github.com/greencity/econews_server/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetProfile 获取当前用户信息
// GET /api/v1/users/me
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, profile)
}

// UpdateRole 修改用户角色
// PATCH /api/v1/users/:id/role
func (h *UserHandler) UpdateRole(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		response.ParamError(c, "invalid user id")
		return
	}

	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	profile, err := h.userService.UpdateRole(c.Request.Context(), middleware.GetViewer(c), userID, req.Role)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "role updated", profile)
}
