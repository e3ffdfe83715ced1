package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestCategoryService_ListAndReplace(t *testing.T) {
	s := newMockStore()
	svc := NewCategoryService(s.repository(), zap.NewNop())
	ctx := context.Background()

	lang := s.seedCategory("어학")
	cert := s.seedCategory("자격증")
	s.seedCategory("공무원")
	u := s.seedUser("alice", true)

	all, err := svc.List(ctx)
	if err != nil || len(all) != 3 {
		t.Fatalf("期望 3 个分类，实际 %d (%v)", len(all), err)
	}

	mine, err := svc.ReplaceMine(ctx, u.UID, []int64{lang.UID, cert.UID, lang.UID})
	if err != nil {
		t.Fatalf("替换关注分类应成功: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("重复分类应去重，期望 2，实际 %d", len(mine))
	}

	mine, err = svc.ReplaceMine(ctx, u.UID, []int64{cert.UID})
	if err != nil {
		t.Fatalf("再次替换应成功: %v", err)
	}
	if len(mine) != 1 || mine[0].CategoryUID != cert.UID {
		t.Errorf("旧分类应被替换，实际 %+v", mine)
	}

	mine, err = svc.ListMine(ctx, u.UID)
	if err != nil || len(mine) != 1 {
		t.Errorf("ListMine 期望 1 个分类，实际 %d (%v)", len(mine), err)
	}
}

func TestCategoryService_ReplaceUnknown(t *testing.T) {
	s := newMockStore()
	svc := NewCategoryService(s.repository(), zap.NewNop())
	u := s.seedUser("alice", true)

	_, err := svc.ReplaceMine(context.Background(), u.UID, []int64{77})
	if !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("期望 ErrUnknownCategory，实际: %v", err)
	}
}
