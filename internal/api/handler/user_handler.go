package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jhappydev/gongsa-server/internal/dto"
	"github.com/jhappydev/gongsa-server/internal/service"
	"github.com/jhappydev/gongsa-server/pkg/response"
)

// UserHandler 用户模块 HTTP 处理器
type UserHandler struct {
	userSvc     service.UserService
	categorySvc service.CategoryService
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService, categorySvc service.CategoryService) *UserHandler {
	return &UserHandler{userSvc: userSvc, categorySvc: categorySvc}
}

// GetProfile 当前用户信息
// GET /api/user
func (h *UserHandler) GetProfile(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.userSvc.GetProfile(c.Request.Context(), id.UserUID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, result)
}

// GetCategories 当前用户关注的分类
// GET /api/user/category
func (h *UserHandler) GetCategories(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}

	result, err := h.categorySvc.ListMine(c.Request.Context(), id.UserUID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, result)
}

// ReplaceCategories 替换当前用户关注的分类
// PUT /api/user/category
func (h *UserHandler) ReplaceCategories(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	var req dto.UpdateUserCategoriesRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.categorySvc.ReplaceMine(c.Request.Context(), id.UserUID, req.CategoryUIDs)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, result)
}
