package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jhappydev/gongsa-server/internal/dto"
	"github.com/jhappydev/gongsa-server/internal/service"
	"github.com/jhappydev/gongsa-server/pkg/response"
)

// StudyGroupHandler 学习小组 HTTP 处理器
type StudyGroupHandler struct {
	groupSvc      service.StudyGroupService
	membershipSvc service.MembershipService
}

// NewStudyGroupHandler 创建 StudyGroupHandler
func NewStudyGroupHandler(groupSvc service.StudyGroupService, membershipSvc service.MembershipService) *StudyGroupHandler {
	return &StudyGroupHandler{groupSvc: groupSvc, membershipSvc: membershipSvc}
}

// Create 创建小组，创建者自动成为组长
// POST /api/study-group
func (h *StudyGroupHandler) Create(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	var req dto.CreateGroupRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.membershipSvc.CreateGroup(c.Request.Context(), &req, id.UserUID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, result)
}

// Search 搜索小组
// GET /api/study-group/search
func (h *StudyGroupHandler) Search(c *gin.Context) {
	var req dto.SearchGroupRequest
	if !bindQuery(c, &req) {
		return
	}

	result, err := h.groupSvc.Search(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, result)
}

// Recommend 推荐小组
// GET /api/study-group/recommend
func (h *StudyGroupHandler) Recommend(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	var req dto.RecommendGroupRequest
	if !bindQuery(c, &req) {
		return
	}

	result, err := h.groupSvc.Recommend(c.Request.Context(), &req, id.UserUID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, result)
}

// Get 小组详情
// GET /api/study-group/:groupUID
func (h *StudyGroupHandler) Get(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	groupUID, ok := parseUIDParam(c, "groupUID")
	if !ok {
		return
	}

	result, err := h.groupSvc.Get(c.Request.Context(), groupUID, id.UserUID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, result)
}
