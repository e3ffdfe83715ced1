package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jhappydev/gongsa-server/config"
	"github.com/jhappydev/gongsa-server/internal/model"
	"github.com/jhappydev/gongsa-server/internal/repository"
	"github.com/jhappydev/gongsa-server/pkg/events"
	"github.com/jhappydev/gongsa-server/pkg/jwt"
)

// ── 内存数据集 ──
// 所有 mock 仓储共享同一份 map，以便关联查询（成员 → 用户、学习时长汇总等）

type mockStore struct {
	nextID int64
	now    time.Time

	users          map[int64]*model.User
	userAuths      map[int64]*model.UserAuth
	categories     map[int64]*model.Category
	userCategories map[int64][]int64 // userUID → categoryUIDs
	groupCats      map[int64][]int64 // groupUID → categoryUIDs
	groups         map[int64]*model.StudyGroup
	members        map[int64]*model.GroupMember
	questions      map[int64]*model.Question
	answers        map[int64]*model.Answer
	studyMembers   map[int64]*model.StudyMember

	// failWith 非空时所有读写返回该错误（模拟存储故障）
	failWith error
}

func newMockStore() *mockStore {
	return &mockStore{
		now:            time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		users:          make(map[int64]*model.User),
		userAuths:      make(map[int64]*model.UserAuth),
		categories:     make(map[int64]*model.Category),
		userCategories: make(map[int64][]int64),
		groupCats:      make(map[int64][]int64),
		groups:         make(map[int64]*model.StudyGroup),
		members:        make(map[int64]*model.GroupMember),
		questions:      make(map[int64]*model.Question),
		answers:        make(map[int64]*model.Answer),
		studyMembers:   make(map[int64]*model.StudyMember),
	}
}

func (s *mockStore) id() int64 {
	s.nextID++
	return s.nextID
}

// tick 每次写入推进 1 秒，保证时间戳有序
func (s *mockStore) tick() time.Time {
	s.now = s.now.Add(time.Second)
	return s.now
}

func (s *mockStore) repository() *repository.Repository {
	return &repository.Repository{
		User:        &mockUserRepo{s},
		UserAuth:    &mockUserAuthRepo{s},
		Category:    &mockCategoryRepo{s},
		StudyGroup:  &mockStudyGroupRepo{s},
		GroupMember: &mockGroupMemberRepo{s},
		Question:    &mockQuestionRepo{s},
		Answer:      &mockAnswerRepo{s},
		StudyMember: &mockStudyMemberRepo{s},
	}
}

// ── 种子数据 ──

func (s *mockStore) seedUser(nickname string, isAuth bool) *model.User {
	u := &model.User{
		UID:      s.id(),
		Email:    nickname + "@example.com",
		Nickname: nickname,
		IsAuth:   isAuth,
	}
	u.CreatedAt = s.tick()
	s.users[u.UID] = u
	return u
}

func (s *mockStore) seedGroup(name string, maxMember, minHour int) *model.StudyGroup {
	uid := s.id()
	g := &model.StudyGroup{
		UID:          uid,
		Name:         name,
		Code:         fmt.Sprintf("0000-0000-0000-%04d", uid),
		MaxMember:    maxMember,
		MinStudyHour: minHour,
		ExpiredAt:    s.now.Add(30 * 24 * time.Hour),
	}
	g.CreatedAt = s.tick()
	s.groups[g.UID] = g
	return g
}

func (s *mockStore) seedMember(groupUID, userUID int64, leader bool) *model.GroupMember {
	m := &model.GroupMember{UID: s.id(), GroupUID: groupUID, UserUID: userUID, IsLeader: leader}
	m.CreatedAt = s.tick()
	s.members[m.UID] = m
	return m
}

func (s *mockStore) seedCategory(name string) *model.Category {
	c := &model.Category{UID: s.id(), Name: name}
	s.categories[c.UID] = c
	return c
}

func (s *mockStore) seedSession(m *model.GroupMember, status string, seconds int64) *model.StudyMember {
	sm := &model.StudyMember{
		UID:            s.id(),
		GroupUID:       m.GroupUID,
		GroupMemberUID: m.UID,
		UserUID:        m.UserUID,
		StudyStatus:    status,
		StudyTime:      seconds,
	}
	sm.CreatedAt = s.tick()
	sm.UpdatedAt = sm.CreatedAt
	s.studyMembers[sm.UID] = sm
	return sm
}

func (s *mockStore) memberOf(groupUID, userUID int64) *model.GroupMember {
	for _, m := range s.members {
		if m.GroupUID == groupUID && m.UserUID == userUID {
			return m
		}
	}
	return nil
}

// ── Mock UserRepository ──

type mockUserRepo struct{ s *mockStore }

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if m.s.failWith != nil {
		return m.s.failWith
	}
	for _, u := range m.s.users {
		if u.Email == user.Email || u.Nickname == user.Nickname {
			return gorm.ErrDuplicatedKey
		}
	}
	user.UID = m.s.id()
	user.CreatedAt = m.s.tick()
	m.s.users[user.UID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, uid int64) (*model.User, error) {
	if m.s.failWith != nil {
		return nil, m.s.failWith
	}
	if u, ok := m.s.users[uid]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByIDForUpdate(ctx context.Context, uid int64) (*model.User, error) {
	return m.GetByID(ctx, uid)
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if m.s.failWith != nil {
		return nil, m.s.failWith
	}
	for _, u := range m.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ExistsByNickname(_ context.Context, nickname string) (bool, error) {
	if m.s.failWith != nil {
		return false, m.s.failWith
	}
	for _, u := range m.s.users {
		if u.Nickname == nickname {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if m.s.failWith != nil {
		return m.s.failWith
	}
	m.s.users[user.UID] = user
	return nil
}

func (m *mockUserRepo) AdjustLevel(_ context.Context, uid int64, delta int) error {
	if m.s.failWith != nil {
		return m.s.failWith
	}
	u, ok := m.s.users[uid]
	if !ok {
		return nil
	}
	u.Level += delta
	if u.Level < 0 {
		u.Level = 0
	}
	return nil
}

// ── Mock UserAuthRepository ──

type mockUserAuthRepo struct{ s *mockStore }

func (m *mockUserAuthRepo) Create(_ context.Context, auth *model.UserAuth) error {
	auth.UID = m.s.id()
	m.s.userAuths[auth.UID] = auth
	return nil
}

func (m *mockUserAuthRepo) GetByID(_ context.Context, uid int64) (*model.UserAuth, error) {
	if a, ok := m.s.userAuths[uid]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserAuthRepo) Update(_ context.Context, auth *model.UserAuth) error {
	m.s.userAuths[auth.UID] = auth
	return nil
}

func (m *mockUserAuthRepo) Delete(_ context.Context, uid int64) error {
	delete(m.s.userAuths, uid)
	return nil
}

// ── Mock CategoryRepository ──

type mockCategoryRepo struct{ s *mockStore }

func (m *mockCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	result := make([]model.Category, 0, len(m.s.categories))
	for _, c := range m.s.categories {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UID < result[j].UID })
	return result, nil
}

func (m *mockCategoryRepo) CountByUIDs(_ context.Context, uids []int64) (int64, error) {
	var n int64
	for _, uid := range uids {
		if _, ok := m.s.categories[uid]; ok {
			n++
		}
	}
	return n, nil
}

func (m *mockCategoryRepo) byUIDs(uids []int64) []model.Category {
	result := make([]model.Category, 0, len(uids))
	for _, uid := range uids {
		if c, ok := m.s.categories[uid]; ok {
			result = append(result, *c)
		}
	}
	return result
}

func (m *mockCategoryRepo) ListByGroup(_ context.Context, groupUID int64) ([]model.Category, error) {
	return m.byUIDs(m.s.groupCats[groupUID]), nil
}

func (m *mockCategoryRepo) ListByUser(_ context.Context, userUID int64) ([]model.Category, error) {
	return m.byUIDs(m.s.userCategories[userUID]), nil
}

func (m *mockCategoryRepo) AddGroupCategories(_ context.Context, groupUID int64, categoryUIDs []int64) error {
	m.s.groupCats[groupUID] = append(m.s.groupCats[groupUID], categoryUIDs...)
	return nil
}

func (m *mockCategoryRepo) ReplaceUserCategories(_ context.Context, userUID int64, categoryUIDs []int64) error {
	m.s.userCategories[userUID] = append([]int64(nil), categoryUIDs...)
	return nil
}

// ── Mock StudyGroupRepository ──

type mockStudyGroupRepo struct{ s *mockStore }

func (m *mockStudyGroupRepo) Create(_ context.Context, group *model.StudyGroup) error {
	if m.s.failWith != nil {
		return m.s.failWith
	}
	group.UID = m.s.id()
	group.CreatedAt = m.s.tick()
	m.s.groups[group.UID] = group
	return nil
}

func (m *mockStudyGroupRepo) GetByID(_ context.Context, uid int64) (*model.StudyGroup, error) {
	if m.s.failWith != nil {
		return nil, m.s.failWith
	}
	if g, ok := m.s.groups[uid]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudyGroupRepo) GetByIDForUpdate(ctx context.Context, uid int64) (*model.StudyGroup, error) {
	return m.GetByID(ctx, uid)
}

func (m *mockStudyGroupRepo) GetByCode(_ context.Context, code string) (*model.StudyGroup, error) {
	for _, g := range m.s.groups {
		if g.Code == code {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudyGroupRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	_, err := m.GetByCode(ctx, code)
	return err == nil, nil
}

func (m *mockStudyGroupRepo) Search(_ context.Context, f repository.StudyGroupFilter) ([]model.StudyGroup, error) {
	var result []model.StudyGroup
	for _, g := range m.s.groups {
		if f.Word != "" && !strings.Contains(g.Code, f.Word) && !strings.HasPrefix(g.Name, f.Word) {
			continue
		}
		if f.IsCam != nil && g.IsCam != *f.IsCam {
			continue
		}
		if len(f.CategoryUIDs) > 0 && !intersects(m.s.groupCats[g.UID], f.CategoryUIDs) {
			continue
		}
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UID > result[j].UID })
	return result, nil
}

func (m *mockStudyGroupRepo) ListRecommended(_ context.Context, categoryUIDs []int64, userUID, excludeGroupUID int64, limit int) ([]model.StudyGroup, error) {
	var result []model.StudyGroup
	for _, g := range m.s.groups {
		if g.UID == excludeGroupUID || m.s.memberOf(g.UID, userUID) != nil {
			continue
		}
		if !intersects(m.s.groupCats[g.UID], categoryUIDs) || g.IsExpired(m.s.now) {
			continue
		}
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UID < result[j].UID })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockStudyGroupRepo) SumMinStudyHourByUser(_ context.Context, userUID int64) (int, error) {
	total := 0
	for _, mem := range m.s.members {
		if mem.UserUID == userUID {
			if g, ok := m.s.groups[mem.GroupUID]; ok {
				total += g.MinStudyHour
			}
		}
	}
	return total, nil
}

func intersects(a, b []int64) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// ── Mock GroupMemberRepository ──

type mockGroupMemberRepo struct{ s *mockStore }

func (m *mockGroupMemberRepo) Create(_ context.Context, member *model.GroupMember) error {
	if m.s.failWith != nil {
		return m.s.failWith
	}
	if m.s.memberOf(member.GroupUID, member.UserUID) != nil {
		return gorm.ErrDuplicatedKey
	}
	member.UID = m.s.id()
	member.CreatedAt = m.s.tick()
	m.s.members[member.UID] = member
	return nil
}

func (m *mockGroupMemberRepo) Get(_ context.Context, groupUID, userUID int64) (*model.GroupMember, error) {
	if m.s.failWith != nil {
		return nil, m.s.failWith
	}
	if mem := m.s.memberOf(groupUID, userUID); mem != nil {
		return mem, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupMemberRepo) CountByGroup(_ context.Context, groupUID int64) (int64, error) {
	var n int64
	for _, mem := range m.s.members {
		if mem.GroupUID == groupUID {
			n++
		}
	}
	return n, nil
}

func (m *mockGroupMemberRepo) ListByGroup(_ context.Context, groupUID int64) ([]model.GroupMember, error) {
	var result []model.GroupMember
	for _, mem := range m.s.members {
		if mem.GroupUID == groupUID {
			row := *mem
			row.User = m.s.users[mem.UserUID]
			result = append(result, row)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UID < result[j].UID })
	return result, nil
}

func (m *mockGroupMemberRepo) ListByUser(_ context.Context, userUID int64) ([]model.GroupMember, error) {
	var result []model.GroupMember
	for _, mem := range m.s.members {
		if mem.UserUID == userUID {
			result = append(result, *mem)
		}
	}
	return result, nil
}

func (m *mockGroupMemberRepo) Delete(_ context.Context, uid int64) error {
	delete(m.s.members, uid)
	return nil
}

// ── Mock QuestionRepository ──

type mockQuestionRepo struct{ s *mockStore }

func (m *mockQuestionRepo) Create(_ context.Context, q *model.Question) error {
	q.UID = m.s.id()
	q.CreatedAt = m.s.tick()
	m.s.questions[q.UID] = q
	return nil
}

func (m *mockQuestionRepo) GetByID(_ context.Context, uid int64) (*model.Question, error) {
	q, ok := m.s.questions[uid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	row := *q
	row.User = m.s.users[q.UserUID]
	row.Answers = nil
	for _, a := range m.s.answers {
		if a.QuestionUID == uid {
			ar := *a
			ar.User = m.s.users[a.UserUID]
			row.Answers = append(row.Answers, ar)
		}
	}
	sort.Slice(row.Answers, func(i, j int) bool { return row.Answers[i].UID < row.Answers[j].UID })
	return &row, nil
}

func (m *mockQuestionRepo) ListByGroup(_ context.Context, groupUID int64) ([]model.Question, error) {
	var result []model.Question
	for _, q := range m.s.questions {
		if q.GroupUID == groupUID {
			row := *q
			row.User = m.s.users[q.UserUID]
			result = append(result, row)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UID > result[j].UID })
	return result, nil
}

func (m *mockQuestionRepo) ListUIDsByGroupAndUser(_ context.Context, groupUID, userUID int64) ([]int64, error) {
	var uids []int64
	for _, q := range m.s.questions {
		if q.GroupUID == groupUID && q.UserUID == userUID {
			uids = append(uids, q.UID)
		}
	}
	return uids, nil
}

func (m *mockQuestionRepo) UpdateAnswerStatus(_ context.Context, uid int64, status string) error {
	if q, ok := m.s.questions[uid]; ok {
		q.AnswerStatus = status
	}
	return nil
}

func (m *mockQuestionRepo) DeleteByUIDs(_ context.Context, uids []int64) error {
	for _, uid := range uids {
		delete(m.s.questions, uid)
	}
	return nil
}

// ── Mock AnswerRepository ──

type mockAnswerRepo struct{ s *mockStore }

func (m *mockAnswerRepo) Create(_ context.Context, a *model.Answer) error {
	a.UID = m.s.id()
	a.CreatedAt = m.s.tick()
	m.s.answers[a.UID] = a
	return nil
}

func (m *mockAnswerRepo) DeleteByQuestionUIDs(_ context.Context, questionUIDs []int64) error {
	for uid, a := range m.s.answers {
		for _, q := range questionUIDs {
			if a.QuestionUID == q {
				delete(m.s.answers, uid)
			}
		}
	}
	return nil
}

func (m *mockAnswerRepo) DeleteByUserInGroup(_ context.Context, userUID, groupUID int64) error {
	for uid, a := range m.s.answers {
		q, ok := m.s.questions[a.QuestionUID]
		if ok && q.GroupUID == groupUID && a.UserUID == userUID {
			delete(m.s.answers, uid)
		}
	}
	return nil
}

// ── Mock StudyMemberRepository ──

type mockStudyMemberRepo struct{ s *mockStore }

func (m *mockStudyMemberRepo) Create(_ context.Context, sm *model.StudyMember) error {
	sm.UID = m.s.id()
	sm.CreatedAt = m.s.tick()
	sm.UpdatedAt = sm.CreatedAt
	m.s.studyMembers[sm.UID] = sm
	return nil
}

func (m *mockStudyMemberRepo) GetByID(_ context.Context, uid int64) (*model.StudyMember, error) {
	if sm, ok := m.s.studyMembers[uid]; ok {
		row := *sm
		return &row, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudyMemberRepo) UpdateStatus(_ context.Context, uid int64, status string, studyTime int64) error {
	if sm, ok := m.s.studyMembers[uid]; ok {
		sm.StudyStatus = status
		sm.StudyTime = studyTime
		sm.UpdatedAt = m.s.tick()
	}
	return nil
}

func (m *mockStudyMemberRepo) ListByGroup(_ context.Context, groupUID int64) ([]model.StudyMember, error) {
	var result []model.StudyMember
	for _, sm := range m.s.studyMembers {
		if sm.GroupUID == groupUID {
			result = append(result, *sm)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UID < result[j].UID })
	return result, nil
}

func (m *mockStudyMemberRepo) DeleteByGroupMember(_ context.Context, groupMemberUID int64) error {
	for uid, sm := range m.s.studyMembers {
		if sm.GroupMemberUID == groupMemberUID {
			delete(m.s.studyMembers, uid)
		}
	}
	return nil
}

// ── Mock 基础设施 ──

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

type mockBlacklist struct {
	revoked map[string]time.Duration
	err     error
}

func newMockBlacklist() *mockBlacklist {
	return &mockBlacklist{revoked: make(map[string]time.Duration)}
}

func (b *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if b.err != nil {
		return b.err
	}
	b.revoked[jti] = ttl
	return nil
}

func (b *mockBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	if b.err != nil {
		return false, b.err
	}
	_, ok := b.revoked[jti]
	return ok, nil
}

type mockMailer struct {
	sent map[string]string // email → code
}

func (m *mockMailer) SendAuthCode(_ context.Context, to, code string) error {
	if m.sent == nil {
		m.sent = make(map[string]string)
	}
	m.sent[to] = code
	return nil
}

// ── 公共构造 ──

func newTestJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-0123456789",
		Issuer:          "gongsa-test",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})
}

func newTestMembershipService(s *mockStore, pub events.Publisher) *membershipService {
	svc := NewMembershipService(s.repository(), pub, DefaultDailyStudyHourLimit, zap.NewNop()).(*membershipService)
	svc.now = func() time.Time { return s.now }
	return svc
}
