package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jhappydev/gongsa-server/internal/model"
)

// newSQLiteDB 每个测试独立的内存库
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // 内存库只存在于单个连接
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, nickname string) *model.User {
	t.Helper()
	u := &model.User{
		Email:    nickname + "@gongsa.kr",
		Passwd:   "hash",
		Nickname: nickname,
		IsAuth:   true,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(u).Error)
	return u
}

func seedGroup(t *testing.T, db *gorm.DB, name, code string, maxMember, minHour int) *model.StudyGroup {
	t.Helper()
	g := &model.StudyGroup{
		Name:         name,
		Code:         code,
		MaxMember:    maxMember,
		MinStudyHour: minHour,
		ExpiredAt:    time.Now().Add(30 * 24 * time.Hour),
	}
	require.NoError(t, db.WithContext(context.Background()).Create(g).Error)
	return g
}

func seedMember(t *testing.T, db *gorm.DB, groupUID, userUID int64, leader bool) *model.GroupMember {
	t.Helper()
	m := &model.GroupMember{GroupUID: groupUID, UserUID: userUID, IsLeader: leader}
	require.NoError(t, db.WithContext(context.Background()).Create(m).Error)
	return m
}
