package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jhappydev/gongsa-server/internal/dto"
	"github.com/jhappydev/gongsa-server/internal/model"
	"github.com/jhappydev/gongsa-server/internal/repository"
	pkgerrors "github.com/jhappydev/gongsa-server/pkg/errors"
	"github.com/jhappydev/gongsa-server/pkg/events"
)

// ── 学习记录业务错误 ──

var (
	ErrStudyMemberNotFound = pkgerrors.NotFound("studyMemberUID", "study session not found")
	ErrNotSessionOwner     = pkgerrors.Forbidden("studyMemberUID", "not your study session")
	ErrStudyTimeDecreased  = pkgerrors.Validation("studyTime", "studyTime must not decrease")
	ErrInvalidStudyStatus  = pkgerrors.Validation("studyStatus", "invalid study status")
)

// StudyMemberService 学习房间会话业务接口
type StudyMemberService interface {
	Start(ctx context.Context, groupUID, userUID int64) (*dto.StudyMemberResponse, error)
	Update(ctx context.Context, studyMemberUID int64, req *dto.UpdateStudyRequest, userUID int64) (*dto.StudyMemberResponse, error)
	LastStudyTimes(ctx context.Context, groupUID, userUID int64) ([]dto.LastStudyTimeResponse, error)
}

type studyMemberService struct {
	repo      *repository.Repository
	publisher events.Publisher
	logger    *zap.Logger
}

// NewStudyMemberService 创建 StudyMemberService 实例
func NewStudyMemberService(repo *repository.Repository, publisher events.Publisher, logger *zap.Logger) StudyMemberService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &studyMemberService{repo: repo, publisher: publisher, logger: logger}
}

// ────────────── Start ──────────────

func (s *studyMemberService) Start(ctx context.Context, groupUID, userUID int64) (*dto.StudyMemberResponse, error) {
	var member *model.GroupMember
	if err := requireMembership(ctx, s.repo, s.logger, groupUID, userUID, &member); err != nil {
		return nil, err
	}

	sm := &model.StudyMember{
		GroupUID:       groupUID,
		GroupMemberUID: member.UID,
		UserUID:        userUID,
		StudyStatus:    model.StudyStatusStudying,
	}
	if err := s.repo.StudyMember.Create(ctx, sm); err != nil {
		return nil, storageFailure(s.logger, err, "创建学习记录失败",
			zap.Int64("groupUID", groupUID), zap.Int64("userUID", userUID))
	}

	s.publishStatus(ctx, sm)
	return toStudyMemberResponse(sm), nil
}

// ────────────── Update ──────────────

func (s *studyMemberService) Update(ctx context.Context, studyMemberUID int64, req *dto.UpdateStudyRequest, userUID int64) (*dto.StudyMemberResponse, error) {
	if !model.ValidStudyStatus(req.StudyStatus) {
		return nil, ErrInvalidStudyStatus
	}

	sm, err := s.repo.StudyMember.GetByID(ctx, studyMemberUID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrStudyMemberNotFound
		}
		return nil, storageFailure(s.logger, err, "查询学习记录失败", zap.Int64("studyMemberUID", studyMemberUID))
	}
	if sm.UserUID != userUID {
		return nil, ErrNotSessionOwner
	}
	// 累计时长只增不减
	if req.StudyTime < sm.StudyTime {
		return nil, ErrStudyTimeDecreased
	}

	if err := s.repo.StudyMember.UpdateStatus(ctx, sm.UID, req.StudyStatus, req.StudyTime); err != nil {
		return nil, storageFailure(s.logger, err, "更新学习记录失败", zap.Int64("studyMemberUID", sm.UID))
	}
	sm.StudyStatus = req.StudyStatus
	sm.StudyTime = req.StudyTime

	s.publishStatus(ctx, sm)
	return toStudyMemberResponse(sm), nil
}

// ────────────── LastStudyTimes ──────────────

// LastStudyTimes 每个成员最近一次学习记录，未学习过的成员 LastStudyAt 为空
func (s *studyMemberService) LastStudyTimes(ctx context.Context, groupUID, userUID int64) ([]dto.LastStudyTimeResponse, error) {
	if err := requireMember(ctx, s.repo, s.logger, groupUID, userUID); err != nil {
		return nil, err
	}

	members, err := s.repo.GroupMember.ListByGroup(ctx, groupUID)
	if err != nil {
		return nil, storageFailure(s.logger, err, "查询小组成员失败", zap.Int64("groupUID", groupUID))
	}
	sessions, err := s.repo.StudyMember.ListByGroup(ctx, groupUID)
	if err != nil {
		return nil, storageFailure(s.logger, err, "查询学习记录失败", zap.Int64("groupUID", groupUID))
	}

	latest := make(map[int64]model.StudyMember, len(members))
	for _, sm := range sessions {
		if cur, ok := latest[sm.GroupMemberUID]; !ok || isLater(sm, cur) {
			latest[sm.GroupMemberUID] = sm
		}
	}

	result := make([]dto.LastStudyTimeResponse, 0, len(members))
	for _, m := range members {
		row := dto.LastStudyTimeResponse{UserUID: m.UserUID, StudyTime: formatStudyTime(0)}
		if m.User != nil {
			row.Nickname = m.User.Nickname
		}
		if sm, ok := latest[m.UID]; ok {
			row.LastStudyAt = sm.UpdatedAt.Format(time.RFC3339)
			row.StudyTime = formatStudyTime(sm.StudyTime)
		}
		result = append(result, row)
	}
	return result, nil
}

// ── 内部辅助方法 ──

func (s *studyMemberService) publishStatus(ctx context.Context, sm *model.StudyMember) {
	ev := events.Event{
		Type:       events.TypeStudyStatus,
		GroupUID:   sm.GroupUID,
		UserUID:    sm.UserUID,
		OccurredAt: time.Now(),
		Payload: map[string]interface{}{
			"studyMemberUID": sm.UID,
			"studyStatus":    sm.StudyStatus,
			"studyTime":      sm.StudyTime,
		},
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("学习状态事件发布失败", zap.Int64("studyMemberUID", sm.UID), zap.Error(err))
	}
}

func toStudyMemberResponse(sm *model.StudyMember) *dto.StudyMemberResponse {
	return &dto.StudyMemberResponse{
		StudyMemberUID: sm.UID,
		GroupUID:       sm.GroupUID,
		StudyStatus:    sm.StudyStatus,
		StudyTime:      sm.StudyTime,
	}
}
