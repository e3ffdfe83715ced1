//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jhappydev/gongsa-server/internal/model"
	"github.com/jhappydev/gongsa-server/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=gongsa password=gongsa_password dbname=gongsa_test sslmode=disable TimeZone=Asia/Seoul"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	if err := testDB.AutoMigrate(model.All()...); err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

// setupGroup 创建小组与若干候选用户并返回清理函数
func setupGroup(t *testing.T, maxMember, candidates int) (*model.StudyGroup, []*model.User, func()) {
	t.Helper()
	ctx := context.Background()
	suffix := time.Now().UnixNano()

	group := &model.StudyGroup{
		Name:         "并发测试",
		Code:         fmt.Sprintf("%04d-%04d-%04d-%04d", suffix%10000, (suffix/1e4)%10000, (suffix/1e8)%10000, (suffix/1e12)%10000),
		MaxMember:    maxMember,
		MinStudyHour: 1,
		ExpiredAt:    time.Now().Add(24 * time.Hour),
	}
	if err := testDB.WithContext(ctx).Create(group).Error; err != nil {
		t.Fatalf("创建小组失败: %v", err)
	}

	users := make([]*model.User, 0, candidates)
	for i := 0; i < candidates; i++ {
		u := &model.User{
			Email:    fmt.Sprintf("u%d-%d@gongsa.kr", suffix, i),
			Passwd:   "hash",
			Nickname: fmt.Sprintf("u%d-%d", suffix, i),
			IsAuth:   true,
		}
		if err := testDB.WithContext(ctx).Create(u).Error; err != nil {
			t.Fatalf("创建用户失败: %v", err)
		}
		users = append(users, u)
	}

	cleanup := func() {
		testDB.Where("group_uid = ?", group.UID).Delete(&model.GroupMember{})
		testDB.Where("uid = ?", group.UID).Delete(&model.StudyGroup{})
		for _, u := range users {
			testDB.Where("uid = ?", u.UID).Delete(&model.User{})
		}
	}
	return group, users, cleanup
}

// ═══════════════════════════════════════════════════════════
// Test: FOR UPDATE 保证容量检查与插入串行化
// ═══════════════════════════════════════════════════════════

func TestGroupLock_CapacityUnderConcurrency(t *testing.T) {
	const maxMember = 3
	group, users, cleanup := setupGroup(t, maxMember, 10)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()
	errFull := errors.New("full")

	var wg sync.WaitGroup
	results := make([]error, len(users))
	for i, u := range users {
		wg.Add(1)
		go func(i int, u *model.User) {
			defer wg.Done()
			results[i] = repo.Transaction(ctx, func(tx *repository.Repository) error {
				if _, err := tx.StudyGroup.GetByIDForUpdate(ctx, group.UID); err != nil {
					return err
				}
				count, err := tx.GroupMember.CountByGroup(ctx, group.UID)
				if err != nil {
					return err
				}
				if count >= maxMember {
					return errFull
				}
				return tx.GroupMember.Create(ctx, &model.GroupMember{GroupUID: group.UID, UserUID: u.UID})
			})
		}(i, u)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, errFull):
		default:
			t.Errorf("意外错误: %v", err)
		}
	}
	if succeeded != maxMember {
		t.Errorf("期望恰好 %d 个成功，实际 %d", maxMember, succeeded)
	}

	count, _ := repo.GroupMember.CountByGroup(ctx, group.UID)
	if count != maxMember {
		t.Errorf("期望成员数 %d，实际 %d", maxMember, count)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: 唯一约束兜底
// ═══════════════════════════════════════════════════════════

func TestGroupMember_DuplicateKeyTranslated(t *testing.T) {
	group, users, cleanup := setupGroup(t, 5, 1)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	if err := repo.GroupMember.Create(ctx, &model.GroupMember{GroupUID: group.UID, UserUID: users[0].UID}); err != nil {
		t.Fatalf("首次加入应成功: %v", err)
	}
	err := repo.GroupMember.Create(ctx, &model.GroupMember{GroupUID: group.UID, UserUID: users[0].UID})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("期望 gorm.ErrDuplicatedKey，实际: %v", err)
	}
}
