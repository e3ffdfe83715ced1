package model

import "time"

// BaseModel 通用时间戳字段（所有业务模型嵌入）
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// All 返回全部模型，供 AutoMigrate 使用（SQLite 测试库）
// 生产环境 schema 由 pkg/database/migrations 管理
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserAuth{},
		&Category{},
		&UserCategory{},
		&StudyGroup{},
		&GroupCategory{},
		&GroupMember{},
		&Question{},
		&Answer{},
		&StudyMember{},
	}
}
