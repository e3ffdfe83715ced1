package model

import "time"

// StudyGroup 学习小组表，对应 study_groups
type StudyGroup struct {
	UID           int64     `gorm:"column:uid;primaryKey;autoIncrement"  json:"groupUID"`
	Name          string    `gorm:"type:varchar(100);not null"           json:"name"`
	Code          string    `gorm:"type:char(19);not null;uniqueIndex"   json:"code"` // 0000-0000-0000-0000
	IsCam         bool      `gorm:"not null;default:false"               json:"isCam"`
	IsPrivate     bool      `gorm:"not null;default:false"               json:"isPrivate"`
	IsRest        bool      `gorm:"not null;default:false"               json:"isRest"`
	IsPenalty     bool      `gorm:"not null;default:false"               json:"isPenalty"`
	MaxMember     int       `gorm:"not null"                             json:"maxMember"`
	MaxTodayStudy int       `gorm:"not null;default:0"                   json:"maxTodayStudy"`
	MaxRest       int       `gorm:"not null;default:0"                   json:"maxRest"`
	MaxPenalty    int       `gorm:"not null;default:0"                   json:"maxPenalty"`
	MinStudyHour  int       `gorm:"not null"                             json:"minStudyHour"` // 每日最少学习小时数
	ExpiredAt     time.Time `gorm:"not null"                             json:"expiredAt"`
	BaseModel
}

// TableName 指定表名
func (StudyGroup) TableName() string { return "study_groups" }

// IsExpired 小组是否已到期
func (g *StudyGroup) IsExpired(now time.Time) bool {
	return !g.ExpiredAt.After(now)
}

// Category 分类表，对应 categories
type Category struct {
	UID  int64  `gorm:"column:uid;primaryKey;autoIncrement"  json:"categoryUID"`
	Name string `gorm:"type:varchar(50);not null;uniqueIndex" json:"name"`
}

// TableName 指定表名
func (Category) TableName() string { return "categories" }

// GroupCategory 小组-分类关联表
type GroupCategory struct {
	GroupUID    int64 `gorm:"column:group_uid;primaryKey"    json:"groupUID"`
	CategoryUID int64 `gorm:"column:category_uid;primaryKey" json:"categoryUID"`
}

// TableName 指定表名
func (GroupCategory) TableName() string { return "group_categories" }

// UserCategory 用户-分类关联表
type UserCategory struct {
	UserUID     int64 `gorm:"column:user_uid;primaryKey"     json:"userUID"`
	CategoryUID int64 `gorm:"column:category_uid;primaryKey" json:"categoryUID"`
}

// TableName 指定表名
func (UserCategory) TableName() string { return "user_categories" }
