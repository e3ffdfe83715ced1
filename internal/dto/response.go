package dto

// ── 认证模块响应 ──

// RegisterResponse 注册成功响应
type RegisterResponse struct {
	UserUID int64 `json:"userUID"`
}

// TokenResponse Token 对响应
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"` // 刷新接口只返回 Access Token
}

// ── 用户模块响应 ──

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	UserUID  int64  `json:"userUID"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Level    int    `json:"level"`
	ImgPath  string `json:"imgPath"`
}

// CategoryResponse 分类
type CategoryResponse struct {
	CategoryUID int64  `json:"categoryUID"`
	Name        string `json:"name"`
}

// ── 学习小组响应 ──

// CreateGroupResponse 创建小组响应
type CreateGroupResponse struct {
	GroupUID int64 `json:"groupUID"`
}

// StudyGroupResponse 小组信息
type StudyGroupResponse struct {
	GroupUID      int64              `json:"groupUID"`
	Name          string             `json:"name"`
	Code          string             `json:"code,omitempty"` // 私密小组仅对成员返回
	IsCam         bool               `json:"isCam"`
	IsPrivate     bool               `json:"isPrivate"`
	IsRest        bool               `json:"isRest"`
	IsPenalty     bool               `json:"isPenalty"`
	MaxMember     int                `json:"maxMember"`
	MaxTodayStudy int                `json:"maxTodayStudy"`
	MaxRest       int                `json:"maxRest"`
	MaxPenalty    int                `json:"maxPenalty"`
	MinStudyHour  int                `json:"minStudyHour"`
	ExpiredAt     string             `json:"expiredAt"`
	CreatedAt     string             `json:"createdAt"`
	MemberCount   *int64             `json:"memberCount,omitempty"`
	Categories    []CategoryResponse `json:"categories,omitempty"`
}

// ── 小组成员响应 ──

// MembershipResponse 加入小组成功响应
type MembershipResponse struct {
	GroupMemberUID int64 `json:"groupMemberUID"`
	GroupUID       int64 `json:"groupUID"`
	UserUID        int64 `json:"userUID"`
	IsLeader       bool  `json:"isLeader"`
}

// GroupMemberInfo 成员排行条目
type GroupMemberInfo struct {
	UserUID        int64  `json:"userUID"`
	Nickname       string `json:"nickname"`
	ImgPath        string `json:"imgPath"`
	StudyStatus    string `json:"studyStatus"`
	TotalStudyTime string `json:"totalStudyTime"` // HH:MM:SS
	Ranking        int    `json:"ranking"`
}

// GroupMembersResponse 小组成员列表
type GroupMembersResponse struct {
	MaxMember int               `json:"maxMember"`
	Members   []GroupMemberInfo `json:"members"`
}

// ── 问答响应 ──

// QuestionResponse 问题
type QuestionResponse struct {
	QuestionUID  int64            `json:"questionUID"`
	GroupUID     int64            `json:"groupUID"`
	UserUID      int64            `json:"userUID"`
	Nickname     string           `json:"nickname"`
	Title        string           `json:"title"`
	Content      string           `json:"content"`
	AnswerStatus string           `json:"answerStatus"`
	CreatedAt    string           `json:"createdAt"`
	Answers      []AnswerResponse `json:"answers,omitempty"`
}

// AnswerResponse 回答
type AnswerResponse struct {
	AnswerUID int64  `json:"answerUID"`
	UserUID   int64  `json:"userUID"`
	Nickname  string `json:"nickname"`
	Answer    string `json:"answer"`
	CreatedAt string `json:"createdAt"`
}

// ── 学习记录响应 ──

// StudyMemberResponse 学习记录
type StudyMemberResponse struct {
	StudyMemberUID int64  `json:"studyMemberUID"`
	GroupUID       int64  `json:"groupUID"`
	StudyStatus    string `json:"studyStatus"`
	StudyTime      int64  `json:"studyTime"`
}

// LastStudyTimeResponse 成员最近一次学习记录
type LastStudyTimeResponse struct {
	UserUID     int64  `json:"userUID"`
	Nickname    string `json:"nickname"`
	LastStudyAt string `json:"lastStudyAt,omitempty"` // 无记录时为空
	StudyTime   string `json:"studyTime"`             // HH:MM:SS
}

// [自证通过] internal/dto/response.go
