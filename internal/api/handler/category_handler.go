package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jhappydev/gongsa-server/internal/service"
	"github.com/jhappydev/gongsa-server/pkg/response"
)

// CategoryHandler 分类 HTTP 处理器
type CategoryHandler struct {
	categorySvc service.CategoryService
}

// NewCategoryHandler 创建 CategoryHandler
func NewCategoryHandler(categorySvc service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categorySvc: categorySvc}
}

// List 全部分类
// GET /api/category
func (h *CategoryHandler) List(c *gin.Context) {
	result, err := h.categorySvc.List(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, result)
}
