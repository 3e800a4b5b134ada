package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/greencity/econews_server/internal/pkg/response"
	"github.com/greencity/econews_server/internal/service"
)

// handleServiceError 按业务错误类别映射响应
func handleServiceError(c *gin.Context, err error) {
	switch service.KindOf(err) {
	case service.ErrNotFound:
		response.NotFoundError(c, err.Error())
	case service.ErrBadRequest:
		response.ParamError(c, err.Error())
	case service.ErrForbidden:
		response.PermissionError(c, err.Error())
	case service.ErrValidationFailed:
		response.ValidationError(c, err.Error())
	case service.ErrUnauthorized:
		response.AuthError(c, err.Error())
	default:
		_ = c.Error(err)
		response.ServerError(c, "")
	}
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parsePage 读取 page / size 参数，page 从 0 开始
func parsePage(c *gin.Context) (int, int, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		return 0, 0, false
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(service.DefaultPageSize)))
	if err != nil {
		return 0, 0, false
	}
	return page, size, true
}
