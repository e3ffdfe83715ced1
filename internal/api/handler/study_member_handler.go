package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jhappydev/gongsa-server/internal/dto"
	"github.com/jhappydev/gongsa-server/internal/service"
	"github.com/jhappydev/gongsa-server/pkg/response"
)

// StudyMemberHandler 学习记录 HTTP 处理器
type StudyMemberHandler struct {
	studySvc service.StudyMemberService
}

// NewStudyMemberHandler 创建 StudyMemberHandler
func NewStudyMemberHandler(studySvc service.StudyMemberService) *StudyMemberHandler {
	return &StudyMemberHandler{studySvc: studySvc}
}

// Start 开始学习
// POST /api/study-member
func (h *StudyMemberHandler) Start(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	var req dto.StartStudyRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.studySvc.Start(c.Request.Context(), req.GroupUID, id.UserUID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, result)
}

// Update 更新学习状态与时长
// PATCH /api/study-member/:studyMemberUID
func (h *StudyMemberHandler) Update(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	studyMemberUID, ok := parseUIDParam(c, "studyMemberUID")
	if !ok {
		return
	}
	var req dto.UpdateStudyRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.studySvc.Update(c.Request.Context(), studyMemberUID, &req, id.UserUID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, result)
}

// LastStudyTimes 成员最近一次学习记录
// GET /api/study-member/:groupUID/last
func (h *StudyMemberHandler) LastStudyTimes(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	groupUID, ok := parseUIDParam(c, "groupUID")
	if !ok {
		return
	}

	result, err := h.studySvc.LastStudyTimes(c.Request.Context(), groupUID, id.UserUID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, result)
}
