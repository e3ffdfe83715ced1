package dto

// ── 学习记录 DTO ──

// StartStudyRequest 开始学习请求
type StartStudyRequest struct {
	GroupUID int64 `json:"groupUID" binding:"required,min=1"`
}

// UpdateStudyRequest 更新学习状态请求
type UpdateStudyRequest struct {
	StudyStatus string `json:"studyStatus" binding:"required,oneof=Studying Resting Inactive"`
	StudyTime   int64  `json:"studyTime"   binding:"min=0"`
}
