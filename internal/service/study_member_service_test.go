package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/jhappydev/gongsa-server/internal/dto"
	"github.com/jhappydev/gongsa-server/internal/model"
	"github.com/jhappydev/gongsa-server/pkg/events"
)

func TestStudyMemberService_StartAndUpdate(t *testing.T) {
	s := newMockStore()
	pub := &recordingPublisher{}
	svc := NewStudyMemberService(s.repository(), pub, zap.NewNop())
	ctx := context.Background()

	g := s.seedGroup("토익", 4, 1)
	u := s.seedUser("alice", true)
	s.seedMember(g.UID, u.UID, true)

	started, err := svc.Start(ctx, g.UID, u.UID)
	if err != nil {
		t.Fatalf("开始学习应成功: %v", err)
	}
	if started.StudyStatus != model.StudyStatusStudying {
		t.Errorf("期望 Studying，实际 %s", started.StudyStatus)
	}

	updated, err := svc.Update(ctx, started.StudyMemberUID, &dto.UpdateStudyRequest{
		StudyStatus: model.StudyStatusResting,
		StudyTime:   1200,
	}, u.UID)
	if err != nil {
		t.Fatalf("更新学习状态应成功: %v", err)
	}
	if updated.StudyTime != 1200 || updated.StudyStatus != model.StudyStatusResting {
		t.Errorf("更新结果不符: %+v", updated)
	}

	_, err = svc.Update(ctx, started.StudyMemberUID, &dto.UpdateStudyRequest{
		StudyStatus: model.StudyStatusStudying,
		StudyTime:   600,
	}, u.UID)
	if !errors.Is(err, ErrStudyTimeDecreased) {
		t.Errorf("学习时长减少期望 ErrStudyTimeDecreased，实际: %v", err)
	}

	types := pub.types()
	if len(types) != 2 || types[0] != events.TypeStudyStatus || types[1] != events.TypeStudyStatus {
		t.Errorf("期望发布 2 个 study.status 事件，实际 %v", types)
	}
}

func TestStudyMemberService_Errors(t *testing.T) {
	s := newMockStore()
	svc := NewStudyMemberService(s.repository(), nil, zap.NewNop())
	ctx := context.Background()

	g := s.seedGroup("토익", 4, 1)
	owner := s.seedUser("alice", true)
	other := s.seedUser("bob", true)
	m := s.seedMember(g.UID, owner.UID, true)
	sm := s.seedSession(m, model.StudyStatusStudying, 10)

	if _, err := svc.Start(ctx, g.UID, other.UID); !errors.Is(err, ErrNotMember) {
		t.Errorf("非成员开始学习期望 ErrNotMember，实际: %v", err)
	}
	req := &dto.UpdateStudyRequest{StudyStatus: model.StudyStatusInactive, StudyTime: 20}
	if _, err := svc.Update(ctx, sm.UID, req, other.UID); !errors.Is(err, ErrNotSessionOwner) {
		t.Errorf("他人会话期望 ErrNotSessionOwner，实际: %v", err)
	}
	if _, err := svc.Update(ctx, 404, req, owner.UID); !errors.Is(err, ErrStudyMemberNotFound) {
		t.Errorf("期望 ErrStudyMemberNotFound，实际: %v", err)
	}
	bad := &dto.UpdateStudyRequest{StudyStatus: "Sleeping", StudyTime: 20}
	if _, err := svc.Update(ctx, sm.UID, bad, owner.UID); !errors.Is(err, ErrInvalidStudyStatus) {
		t.Errorf("期望 ErrInvalidStudyStatus，实际: %v", err)
	}
}

func TestStudyMemberService_LastStudyTimes(t *testing.T) {
	s := newMockStore()
	svc := NewStudyMemberService(s.repository(), nil, zap.NewNop())

	g := s.seedGroup("토익", 4, 1)
	alice := s.seedUser("alice", true)
	bob := s.seedUser("bob", true)
	am := s.seedMember(g.UID, alice.UID, true)
	s.seedMember(g.UID, bob.UID, false)
	s.seedSession(am, model.StudyStatusInactive, 7200)
	s.seedSession(am, model.StudyStatusInactive, 65)

	rows, err := svc.LastStudyTimes(context.Background(), g.UID, alice.UID)
	if err != nil {
		t.Fatalf("查询应成功: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("期望 2 行，实际 %d", len(rows))
	}
	if rows[0].UserUID != alice.UID || rows[0].StudyTime != "00:01:05" || rows[0].LastStudyAt == "" {
		t.Errorf("alice 应取最近一次记录，实际 %+v", rows[0])
	}
	if rows[1].UserUID != bob.UID || rows[1].StudyTime != "00:00:00" || rows[1].LastStudyAt != "" {
		t.Errorf("bob 无记录，实际 %+v", rows[1])
	}
}
