package model

// GroupMember 小组成员表，对应 group_members
// (group_uid, user_uid) 唯一，保证同一用户在同一小组至多一条成员记录
type GroupMember struct {
	UID      int64 `gorm:"column:uid;primaryKey;autoIncrement"                     json:"groupMemberUID"`
	GroupUID int64 `gorm:"column:group_uid;not null;uniqueIndex:idx_group_member_group_user" json:"groupUID"`
	UserUID  int64 `gorm:"column:user_uid;not null;uniqueIndex:idx_group_member_group_user;index" json:"userUID"`
	IsLeader bool  `gorm:"not null;default:false"                                  json:"isLeader"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserUID;references:UID" json:"user,omitempty"`
}

// TableName 指定表名
func (GroupMember) TableName() string { return "group_members" }
