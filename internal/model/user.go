package model

import "time"

// User 用户表，对应 users
type User struct {
	UID      int64  `gorm:"column:uid;primaryKey;autoIncrement"  json:"userUID"`
	Email    string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Passwd   string `gorm:"type:varchar(255);not null"             json:"-"`
	Nickname string `gorm:"type:varchar(50);not null;uniqueIndex"  json:"nickname"`
	AuthCode string `gorm:"type:varchar(16);not null;default:''"   json:"-"`
	IsAuth   bool   `gorm:"not null;default:false"                 json:"isAuth"`
	Level    int    `gorm:"not null;default:0"                     json:"level"`
	ImgPath  string `gorm:"type:varchar(255);not null;default:''"  json:"imgPath"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// UserAuth 登录会话表，对应 user_auths
// Access Token 中的 userAuthUID 指向该表
type UserAuth struct {
	UID          int64     `gorm:"column:uid;primaryKey;autoIncrement" json:"userAuthUID"`
	UserUID      int64     `gorm:"column:user_uid;not null;index"      json:"userUID"`
	RefreshToken string    `gorm:"type:text;not null"                  json:"-"`
	ExpiredAt    time.Time `gorm:"not null"                            json:"expiredAt"`
	BaseModel
}

// TableName 指定表名
func (UserAuth) TableName() string { return "user_auths" }
