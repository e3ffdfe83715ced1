package model

// 学习状态
const (
	StudyStatusStudying = "Studying"
	StudyStatusResting  = "Resting"
	StudyStatusInactive = "Inactive"
)

// ValidStudyStatus 校验学习状态取值
func ValidStudyStatus(s string) bool {
	switch s {
	case StudyStatusStudying, StudyStatusResting, StudyStatusInactive:
		return true
	}
	return false
}

// StudyMember 学习记录表，对应 study_members
// 每次进入学习房间生成一条，StudyTime 单位为秒
type StudyMember struct {
	UID            int64  `gorm:"column:uid;primaryKey;autoIncrement"         json:"studyMemberUID"`
	GroupUID       int64  `gorm:"column:group_uid;not null;index"             json:"groupUID"`
	GroupMemberUID int64  `gorm:"column:group_member_uid;not null;index"      json:"groupMemberUID"`
	UserUID        int64  `gorm:"column:user_uid;not null"                    json:"userUID"`
	StudyStatus    string `gorm:"type:varchar(20);not null;default:'Inactive'" json:"studyStatus"`
	StudyTime      int64  `gorm:"not null;default:0"                          json:"studyTime"`
	BaseModel
}

// TableName 指定表名
func (StudyMember) TableName() string { return "study_members" }
