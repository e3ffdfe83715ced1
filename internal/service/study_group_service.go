package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jhappydev/gongsa-server/internal/dto"
	"github.com/jhappydev/gongsa-server/internal/model"
	"github.com/jhappydev/gongsa-server/internal/repository"
	pkgerrors "github.com/jhappydev/gongsa-server/pkg/errors"
)

// ── 小组查询业务错误 ──

var ErrRecommendGroupRequired = pkgerrors.Validation("groupUID", "groupUID is required for expire recommendation")

// 推荐类型
const (
	RecommendMain   = "main"
	RecommendExpire = "expire"
)

const recommendLimit = 20

// StudyGroupService 小组检索、推荐与详情业务接口
type StudyGroupService interface {
	Search(ctx context.Context, req *dto.SearchGroupRequest) ([]dto.StudyGroupResponse, error)
	// Recommend main 按用户关注分类推荐；expire 按指定小组的分类推荐（用于小组到期后续报）
	Recommend(ctx context.Context, req *dto.RecommendGroupRequest, userUID int64) ([]dto.StudyGroupResponse, error)
	// Get 小组详情；邀请码仅对公开小组或小组成员返回
	Get(ctx context.Context, groupUID, viewerUID int64) (*dto.StudyGroupResponse, error)
}

type studyGroupService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStudyGroupService 创建 StudyGroupService 实例
func NewStudyGroupService(repo *repository.Repository, logger *zap.Logger) StudyGroupService {
	return &studyGroupService{repo: repo, logger: logger}
}

// ────────────── Search ──────────────

func (s *studyGroupService) Search(ctx context.Context, req *dto.SearchGroupRequest) ([]dto.StudyGroupResponse, error) {
	groups, err := s.repo.StudyGroup.Search(ctx, repository.StudyGroupFilter{
		CategoryUIDs: uniqueInt64(req.CategoryUIDs),
		Word:         strings.TrimSpace(req.Word),
		IsCam:        req.IsCam,
		Align:        req.Align,
	})
	if err != nil {
		return nil, storageFailure(s.logger, err, "搜索小组失败")
	}
	return toStudyGroupResponses(groups), nil
}

// ────────────── Recommend ──────────────

func (s *studyGroupService) Recommend(ctx context.Context, req *dto.RecommendGroupRequest, userUID int64) ([]dto.StudyGroupResponse, error) {
	var (
		categories []model.Category
		exclude    int64
		err        error
	)

	switch req.Type {
	case RecommendExpire:
		if req.GroupUID <= 0 {
			return nil, ErrRecommendGroupRequired
		}
		if _, err := s.repo.StudyGroup.GetByID(ctx, req.GroupUID); err != nil {
			if isNotFound(err) {
				return nil, ErrGroupNotFound
			}
			return nil, storageFailure(s.logger, err, "查询小组失败", zap.Int64("groupUID", req.GroupUID))
		}
		categories, err = s.repo.Category.ListByGroup(ctx, req.GroupUID)
		exclude = req.GroupUID
	default:
		categories, err = s.repo.Category.ListByUser(ctx, userUID)
	}
	if err != nil {
		return nil, storageFailure(s.logger, err, "查询推荐分类失败", zap.Int64("userUID", userUID))
	}

	categoryUIDs := make([]int64, 0, len(categories))
	for _, c := range categories {
		categoryUIDs = append(categoryUIDs, c.UID)
	}

	groups, err := s.repo.StudyGroup.ListRecommended(ctx, categoryUIDs, userUID, exclude, recommendLimit)
	if err != nil {
		return nil, storageFailure(s.logger, err, "查询推荐小组失败", zap.Int64("userUID", userUID))
	}
	return toStudyGroupResponses(groups), nil
}

// ────────────── Get ──────────────

func (s *studyGroupService) Get(ctx context.Context, groupUID, viewerUID int64) (*dto.StudyGroupResponse, error) {
	group, err := s.repo.StudyGroup.GetByID(ctx, groupUID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrGroupNotFound
		}
		return nil, storageFailure(s.logger, err, "查询小组失败", zap.Int64("groupUID", groupUID))
	}

	count, err := s.repo.GroupMember.CountByGroup(ctx, groupUID)
	if err != nil {
		return nil, storageFailure(s.logger, err, "统计小组成员失败", zap.Int64("groupUID", groupUID))
	}
	categories, err := s.repo.Category.ListByGroup(ctx, groupUID)
	if err != nil {
		return nil, storageFailure(s.logger, err, "查询小组分类失败", zap.Int64("groupUID", groupUID))
	}

	resp := toStudyGroupResponse(group)
	resp.MemberCount = &count
	resp.Categories = toCategoryResponses(categories)

	if group.IsPrivate {
		resp.Code = ""
		if _, err := s.repo.GroupMember.Get(ctx, groupUID, viewerUID); err == nil {
			resp.Code = group.Code
		} else if !isNotFound(err) {
			return nil, storageFailure(s.logger, err, "查询成员关系失败", zap.Int64("groupUID", groupUID))
		}
	}
	return resp, nil
}

// ── 内部辅助方法 ──

// toStudyGroupResponse 私密小组默认隐藏邀请码
func toStudyGroupResponse(g *model.StudyGroup) *dto.StudyGroupResponse {
	resp := &dto.StudyGroupResponse{
		GroupUID:      g.UID,
		Name:          g.Name,
		IsCam:         g.IsCam,
		IsPrivate:     g.IsPrivate,
		IsRest:        g.IsRest,
		IsPenalty:     g.IsPenalty,
		MaxMember:     g.MaxMember,
		MaxTodayStudy: g.MaxTodayStudy,
		MaxRest:       g.MaxRest,
		MaxPenalty:    g.MaxPenalty,
		MinStudyHour:  g.MinStudyHour,
		ExpiredAt:     g.ExpiredAt.Format(time.RFC3339),
		CreatedAt:     g.CreatedAt.Format(time.RFC3339),
	}
	if !g.IsPrivate {
		resp.Code = g.Code
	}
	return resp
}

func toStudyGroupResponses(groups []model.StudyGroup) []dto.StudyGroupResponse {
	result := make([]dto.StudyGroupResponse, 0, len(groups))
	for i := range groups {
		result = append(result, *toStudyGroupResponse(&groups[i]))
	}
	return result
}
