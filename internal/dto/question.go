package dto

// ── 问答 DTO ──

// CreateQuestionRequest 提问请求
type CreateQuestionRequest struct {
	GroupUID int64  `json:"groupUID" binding:"required,min=1"`
	Title    string `json:"title"    binding:"required,max=200"`
	Content  string `json:"content"  binding:"required,max=5000"`
}

// CreateAnswerRequest 回答请求
type CreateAnswerRequest struct {
	QuestionUID int64  `json:"questionUID" binding:"required,min=1"`
	Answer      string `json:"answer"      binding:"required,max=5000"`
}

// QuestionCreatedResponse 提问成功响应
type QuestionCreatedResponse struct {
	QuestionUID int64 `json:"questionUID"`
}

// AnswerCreatedResponse 回答成功响应
type AnswerCreatedResponse struct {
	AnswerUID int64 `json:"answerUID"`
}
