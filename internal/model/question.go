package model

// 问题回答状态
const (
	AnswerStatusPending  = "pending"
	AnswerStatusAnswered = "answered"
)

// Question 小组问题表，对应 questions
type Question struct {
	UID          int64  `gorm:"column:uid;primaryKey;autoIncrement"        json:"questionUID"`
	GroupUID     int64  `gorm:"column:group_uid;not null;index:idx_questions_group_user" json:"groupUID"`
	UserUID      int64  `gorm:"column:user_uid;not null;index:idx_questions_group_user"  json:"userUID"`
	Title        string `gorm:"type:varchar(200);not null"                 json:"title"`
	Content      string `gorm:"type:text;not null"                         json:"content"`
	AnswerStatus string `gorm:"type:varchar(20);not null;default:'pending'" json:"answerStatus"`
	BaseModel

	// 关联
	User    *User    `gorm:"foreignKey:UserUID;references:UID"        json:"user,omitempty"`
	Answers []Answer `gorm:"foreignKey:QuestionUID;references:UID"    json:"answers,omitempty"`
}

// TableName 指定表名
func (Question) TableName() string { return "questions" }

// Answer 问题回答表，对应 answers
type Answer struct {
	UID         int64  `gorm:"column:uid;primaryKey;autoIncrement" json:"answerUID"`
	QuestionUID int64  `gorm:"column:question_uid;not null;index"  json:"questionUID"`
	UserUID     int64  `gorm:"column:user_uid;not null"            json:"userUID"`
	Answer      string `gorm:"type:text;not null"                  json:"answer"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserUID;references:UID" json:"user,omitempty"`
}

// TableName 指定表名
func (Answer) TableName() string { return "answers" }
