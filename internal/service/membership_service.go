package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jhappydev/gongsa-server/internal/dto"
	"github.com/jhappydev/gongsa-server/internal/model"
	"github.com/jhappydev/gongsa-server/internal/repository"
	pkgerrors "github.com/jhappydev/gongsa-server/pkg/errors"
	"github.com/jhappydev/gongsa-server/pkg/events"
	"github.com/jhappydev/gongsa-server/pkg/sanitize"
)

// ── 成员准入业务错误 ──

var (
	ErrAlreadyJoined       = pkgerrors.Conflict("groupUID", "already joined")
	ErrCapacityReached     = pkgerrors.Conflict("groupMember", "capacity reached")
	ErrStudyHourExceeded   = pkgerrors.Conflict("minStudyHour", "exceeds daily limit")
	ErrJoinCodeNotFound    = pkgerrors.NotFound("code", "group not found")
	ErrInvalidExpiredAt    = pkgerrors.Validation("expiredAt", "expiredAt must be a future date")
	ErrInvalidGroupName    = pkgerrors.Validation("name", "name must not be empty")
	ErrUnknownCategory     = pkgerrors.Validation("categoryUIDs", "unknown category")
	ErrJoinCodeUnavailable = pkgerrors.Transient("could not allocate join code", nil)
)

// DefaultDailyStudyHourLimit 用户所在全部小组每日最少学习小时之和的上限
const DefaultDailyStudyHourLimit = 24

const joinCodeAttempts = 5

// MembershipService 小组成员准入业务接口
//
// 所有准入决策都在事务内重新读取当前状态：
//   - 小组行与用户行先后以 SELECT ... FOR UPDATE 加锁，顺序固定为 小组 → 用户
//   - (group_uid, user_uid) 唯一索引兜底，冲突视为重复加入
type MembershipService interface {
	Join(ctx context.Context, groupUID, userUID int64) (*dto.MembershipResponse, error)
	JoinByCode(ctx context.Context, code string, userUID int64) (*dto.MembershipResponse, error)
	Leave(ctx context.Context, groupUID, userUID int64) error
	CreateGroup(ctx context.Context, req *dto.CreateGroupRequest, founderUID int64) (*dto.CreateGroupResponse, error)
	ListMembers(ctx context.Context, groupUID int64) (*dto.GroupMembersResponse, error)
}

type membershipService struct {
	repo       *repository.Repository
	publisher  events.Publisher
	dailyLimit int
	newCode    func() (string, error)
	now        func() time.Time
	logger     *zap.Logger
}

// NewMembershipService 创建 MembershipService 实例
// dailyLimit <= 0 时使用 DefaultDailyStudyHourLimit
func NewMembershipService(repo *repository.Repository, publisher events.Publisher, dailyLimit int, logger *zap.Logger) MembershipService {
	if dailyLimit <= 0 {
		dailyLimit = DefaultDailyStudyHourLimit
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &membershipService{
		repo:       repo,
		publisher:  publisher,
		dailyLimit: dailyLimit,
		newCode:    generateJoinCode,
		now:        time.Now,
		logger:     logger,
	}
}

// ────────────── Join ──────────────

func (s *membershipService) Join(ctx context.Context, groupUID, userUID int64) (*dto.MembershipResponse, error) {
	var member *model.GroupMember

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 1. 锁定小组行
		group, err := tx.StudyGroup.GetByIDForUpdate(ctx, groupUID)
		if err != nil {
			if isNotFound(err) {
				return ErrGroupNotFound
			}
			return err
		}

		// 2. 锁定用户行（同一用户并发加入不同小组时串行化学习时长校验）
		if _, err := tx.User.GetByIDForUpdate(ctx, userUID); err != nil {
			if isNotFound(err) {
				return ErrUserNotFound
			}
			return err
		}

		// 3. 校验并插入
		member, err = s.admit(ctx, tx, group, userUID)
		return err
	})
	if err != nil {
		return nil, storageFailure(s.logger, err, "加入小组失败",
			zap.Int64("groupUID", groupUID), zap.Int64("userUID", userUID))
	}

	s.publish(ctx, events.TypeMemberJoined, groupUID, userUID)

	return &dto.MembershipResponse{
		GroupMemberUID: member.UID,
		GroupUID:       member.GroupUID,
		UserUID:        member.UserUID,
		IsLeader:       member.IsLeader,
	}, nil
}

// admit 依次校验 重复加入 → 容量 → 每日学习时长，通过后插入成员并提升等级
// 调用方必须已在事务内锁定小组行与用户行
func (s *membershipService) admit(ctx context.Context, tx *repository.Repository, group *model.StudyGroup, userUID int64) (*model.GroupMember, error) {
	if _, err := tx.GroupMember.Get(ctx, group.UID, userUID); err == nil {
		return nil, ErrAlreadyJoined
	} else if !isNotFound(err) {
		return nil, err
	}

	count, err := tx.GroupMember.CountByGroup(ctx, group.UID)
	if err != nil {
		return nil, err
	}
	if count >= int64(group.MaxMember) {
		return nil, ErrCapacityReached
	}

	if err := s.checkStudyHours(ctx, tx, userUID, group.MinStudyHour); err != nil {
		return nil, err
	}

	member := &model.GroupMember{GroupUID: group.UID, UserUID: userUID}
	if err := tx.GroupMember.Create(ctx, member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyJoined
		}
		return nil, err
	}

	if err := tx.User.AdjustLevel(ctx, userUID, 1); err != nil {
		return nil, err
	}
	return member, nil
}

// checkStudyHours 已加入小组的最少学习小时之和加上新小组要求不得超过每日上限
func (s *membershipService) checkStudyHours(ctx context.Context, tx *repository.Repository, userUID int64, required int) error {
	current, err := tx.StudyGroup.SumMinStudyHourByUser(ctx, userUID)
	if err != nil {
		return err
	}
	if current+required > s.dailyLimit {
		return ErrStudyHourExceeded
	}
	return nil
}

// ────────────── JoinByCode ──────────────

func (s *membershipService) JoinByCode(ctx context.Context, code string, userUID int64) (*dto.MembershipResponse, error) {
	group, err := s.repo.StudyGroup.GetByCode(ctx, code)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrJoinCodeNotFound
		}
		return nil, storageFailure(s.logger, err, "按邀请码查询小组失败")
	}
	return s.Join(ctx, group.UID, userUID)
}

// ────────────── Leave ──────────────

func (s *membershipService) Leave(ctx context.Context, groupUID, userUID int64) error {
	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 1. 锁定小组行，与 Join 使用相同的加锁顺序
		if _, err := tx.StudyGroup.GetByIDForUpdate(ctx, groupUID); err != nil {
			if isNotFound(err) {
				return ErrGroupNotFound
			}
			return err
		}

		// 2. 定位成员关系
		member, err := tx.GroupMember.Get(ctx, groupUID, userUID)
		if err != nil {
			if isNotFound(err) {
				return ErrNotMember
			}
			return err
		}

		// 3. 本人在该小组的问题
		questionUIDs, err := tx.Question.ListUIDsByGroupAndUser(ctx, groupUID, userUID)
		if err != nil {
			return err
		}

		// 4. 本人在该小组的回答，以及挂在本人问题下的回答
		if err := tx.Answer.DeleteByUserInGroup(ctx, userUID, groupUID); err != nil {
			return err
		}
		if err := tx.Answer.DeleteByQuestionUIDs(ctx, questionUIDs); err != nil {
			return err
		}

		// 5. 本人问题
		if err := tx.Question.DeleteByUIDs(ctx, questionUIDs); err != nil {
			return err
		}

		// 6. 学习记录
		if err := tx.StudyMember.DeleteByGroupMember(ctx, member.UID); err != nil {
			return err
		}

		// 7. 成员关系
		if err := tx.GroupMember.Delete(ctx, member.UID); err != nil {
			return err
		}

		// 8. 降级（不低于 0）
		return tx.User.AdjustLevel(ctx, userUID, -1)
	})
	if err != nil {
		return storageFailure(s.logger, err, "退出小组失败",
			zap.Int64("groupUID", groupUID), zap.Int64("userUID", userUID))
	}

	s.publish(ctx, events.TypeMemberLeft, groupUID, userUID)
	return nil
}

// ────────────── CreateGroup ──────────────

func (s *membershipService) CreateGroup(ctx context.Context, req *dto.CreateGroupRequest, founderUID int64) (*dto.CreateGroupResponse, error) {
	// 1. 入参校验
	name := sanitize.Text(req.Name)
	if name == "" {
		return nil, ErrInvalidGroupName
	}
	expiredAt, err := time.ParseInLocation("2006-01-02", req.ExpiredAt, time.Local)
	if err != nil {
		return nil, ErrInvalidExpiredAt
	}
	expiredAt = expiredAt.Add(24*time.Hour - time.Second) // 当天结束
	if !expiredAt.After(s.now()) {
		return nil, ErrInvalidExpiredAt
	}
	categoryUIDs := uniqueInt64(req.CategoryUIDs)
	if len(categoryUIDs) > 0 {
		n, err := s.repo.Category.CountByUIDs(ctx, categoryUIDs)
		if err != nil {
			return nil, storageFailure(s.logger, err, "查询分类失败")
		}
		if n != int64(len(categoryUIDs)) {
			return nil, ErrUnknownCategory
		}
	}

	group := &model.StudyGroup{
		Name:          name,
		IsCam:         req.IsCam,
		IsPrivate:     req.IsPrivate,
		IsRest:        req.IsRest,
		IsPenalty:     req.IsPenalty,
		MaxMember:     req.MaxMember,
		MaxTodayStudy: req.MaxTodayStudy,
		MaxRest:       req.MaxRest,
		MaxPenalty:    req.MaxPenalty,
		MinStudyHour:  req.MinStudyHour,
		ExpiredAt:     expiredAt,
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		// 2. 锁定创建者并校验学习时长
		if _, err := tx.User.GetByIDForUpdate(ctx, founderUID); err != nil {
			if isNotFound(err) {
				return ErrUserNotFound
			}
			return err
		}
		if err := s.checkStudyHours(ctx, tx, founderUID, group.MinStudyHour); err != nil {
			return err
		}

		// 3. 分配邀请码并创建小组
		code, err := s.allocateCode(ctx, tx)
		if err != nil {
			return err
		}
		group.Code = code
		if err := tx.StudyGroup.Create(ctx, group); err != nil {
			return err
		}

		// 4. 分类
		if err := tx.Category.AddGroupCategories(ctx, group.UID, categoryUIDs); err != nil {
			return err
		}

		// 5. 创建者成为组长
		leader := &model.GroupMember{GroupUID: group.UID, UserUID: founderUID, IsLeader: true}
		if err := tx.GroupMember.Create(ctx, leader); err != nil {
			return err
		}
		return tx.User.AdjustLevel(ctx, founderUID, 1)
	})
	if err != nil {
		return nil, storageFailure(s.logger, err, "创建小组失败", zap.Int64("founderUID", founderUID))
	}

	s.logger.Info("小组已创建", zap.Int64("groupUID", group.UID), zap.Int64("founderUID", founderUID))
	s.publish(ctx, events.TypeGroupCreated, group.UID, founderUID)

	return &dto.CreateGroupResponse{GroupUID: group.UID}, nil
}

func (s *membershipService) allocateCode(ctx context.Context, tx *repository.Repository) (string, error) {
	for i := 0; i < joinCodeAttempts; i++ {
		code, err := s.newCode()
		if err != nil {
			return "", err
		}
		exists, err := tx.StudyGroup.ExistsByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrJoinCodeUnavailable
}

// ────────────── ListMembers ──────────────

func (s *membershipService) ListMembers(ctx context.Context, groupUID int64) (*dto.GroupMembersResponse, error) {
	group, err := s.repo.StudyGroup.GetByID(ctx, groupUID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrGroupNotFound
		}
		return nil, storageFailure(s.logger, err, "查询小组失败", zap.Int64("groupUID", groupUID))
	}

	members, err := s.repo.GroupMember.ListByGroup(ctx, groupUID)
	if err != nil {
		return nil, storageFailure(s.logger, err, "查询小组成员失败", zap.Int64("groupUID", groupUID))
	}

	sessions, err := s.repo.StudyMember.ListByGroup(ctx, groupUID)
	if err != nil {
		return nil, storageFailure(s.logger, err, "查询学习记录失败", zap.Int64("groupUID", groupUID))
	}

	return &dto.GroupMembersResponse{
		MaxMember: group.MaxMember,
		Members:   rankMembers(members, sessions),
	}, nil
}

// rankMembers 按累计学习时长降序排名，时长相同按加入顺序
// members 需已按加入顺序排列
func rankMembers(members []model.GroupMember, sessions []model.StudyMember) []dto.GroupMemberInfo {
	type agg struct {
		total int64
		last  model.StudyMember
		seen  bool
	}
	byMember := make(map[int64]*agg, len(members))
	for _, sm := range sessions {
		a := byMember[sm.GroupMemberUID]
		if a == nil {
			a = &agg{}
			byMember[sm.GroupMemberUID] = a
		}
		a.total += sm.StudyTime
		if !a.seen || isLater(sm, a.last) {
			a.last = sm
			a.seen = true
		}
	}

	type row struct {
		info  dto.GroupMemberInfo
		total int64
	}
	rows := make([]row, 0, len(members))
	for _, m := range members {
		info := dto.GroupMemberInfo{
			UserUID:     m.UserUID,
			StudyStatus: model.StudyStatusInactive,
		}
		if m.User != nil {
			info.Nickname = m.User.Nickname
			info.ImgPath = m.User.ImgPath
		}
		var total int64
		if a := byMember[m.UID]; a != nil {
			total = a.total
			info.StudyStatus = a.last.StudyStatus
		}
		info.TotalStudyTime = formatStudyTime(total)
		rows = append(rows, row{info: info, total: total})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].total > rows[j].total })

	result := make([]dto.GroupMemberInfo, len(rows))
	for i, r := range rows {
		r.info.Ranking = i + 1
		result[i] = r.info
	}
	return result
}

func isLater(a, b model.StudyMember) bool {
	if !a.UpdatedAt.Equal(b.UpdatedAt) {
		return a.UpdatedAt.After(b.UpdatedAt)
	}
	return a.UID > b.UID
}

// formatStudyTime 秒 → HH:MM:SS，小时数可超过 24
func formatStudyTime(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// ── 辅助函数 ──

func (s *membershipService) publish(ctx context.Context, typ string, groupUID, userUID int64) {
	ev := events.Event{Type: typ, GroupUID: groupUID, UserUID: userUID, OccurredAt: s.now()}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		s.logger.Warn("事件发布失败", zap.String("type", typ), zap.Error(err))
	}
}

// generateJoinCode 生成 XXXX-XXXX-XXXX-XXXX 形式的数字邀请码
func generateJoinCode() (string, error) {
	var b strings.Builder
	ten := big.NewInt(10)
	for i := 0; i < 16; i++ {
		if i > 0 && i%4 == 0 {
			b.WriteByte('-')
		}
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

func uniqueInt64(in []int64) []int64 {
	seen := make(map[int64]bool, len(in))
	out := make([]int64, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
