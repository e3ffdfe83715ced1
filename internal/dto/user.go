package dto

// ── 用户模块 DTO ──

// UpdateUserCategoriesRequest 替换用户关注分类
type UpdateUserCategoriesRequest struct {
	CategoryUIDs []int64 `json:"categoryUIDs" binding:"omitempty,max=10,dive,min=1"`
}

// [自证通过] internal/dto/user.go
