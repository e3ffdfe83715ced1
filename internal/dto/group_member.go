package dto

// ── 小组成员 DTO ──

// JoinGroupRequest 加入小组请求
type JoinGroupRequest struct {
	GroupUID int64 `json:"groupUID" binding:"required,min=1"`
}

// JoinByCodeRequest 通过邀请码加入私密小组
type JoinByCodeRequest struct {
	Code string `json:"code" binding:"required,joincode"`
}
