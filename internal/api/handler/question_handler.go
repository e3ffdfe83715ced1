package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jhappydev/gongsa-server/internal/dto"
	"github.com/jhappydev/gongsa-server/internal/service"
	"github.com/jhappydev/gongsa-server/pkg/response"
)

// QuestionHandler 小组问答 HTTP 处理器
type QuestionHandler struct {
	questionSvc service.QuestionService
}

// NewQuestionHandler 创建 QuestionHandler
func NewQuestionHandler(questionSvc service.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionSvc: questionSvc}
}

// Create 提问
// POST /api/question
func (h *QuestionHandler) Create(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	var req dto.CreateQuestionRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.questionSvc.Create(c.Request.Context(), &req, id.UserUID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, result)
}

// ListByGroup 小组内的问题列表
// GET /api/question/group/:groupUID
func (h *QuestionHandler) ListByGroup(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	groupUID, ok := parseUIDParam(c, "groupUID")
	if !ok {
		return
	}

	result, err := h.questionSvc.ListByGroup(c.Request.Context(), groupUID, id.UserUID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, result)
}

// Get 问题详情（含回答）
// GET /api/question/:questionUID
func (h *QuestionHandler) Get(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	questionUID, ok := parseUIDParam(c, "questionUID")
	if !ok {
		return
	}

	result, err := h.questionSvc.Get(c.Request.Context(), questionUID, id.UserUID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, result)
}

// Answer 回答问题
// POST /api/answer
func (h *QuestionHandler) Answer(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	var req dto.CreateAnswerRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.questionSvc.Answer(c.Request.Context(), &req, id.UserUID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, result)
}
