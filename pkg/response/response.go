package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	pkgerrors "github.com/jhappydev/gongsa-server/pkg/errors"
)

// Response 统一响应结构：{ data, location?, msg? }
type Response struct {
	Data     interface{} `json:"data"`
	Location string      `json:"location,omitempty"`
	Msg      string      `json:"msg,omitempty"`
}

// ── 成功响应 ──

// OK 200 成功响应
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Data: data})
}

// Created 201 创建成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Data: data})
}

// NoContent 204 无响应体
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, location, msg string) {
	c.AbortWithStatusJSON(httpStatus, Response{Location: location, Msg: msg})
}

// StatusOf 错误分类到 HTTP 状态码的映射
func StatusOf(kind pkgerrors.Kind) int {
	switch kind {
	case pkgerrors.KindUnauthorized:
		return http.StatusUnauthorized
	case pkgerrors.KindForbidden:
		return http.StatusForbidden
	case pkgerrors.KindTransient:
		return http.StatusServiceUnavailable
	default:
		// NotFound / Conflict / Validation 以及未分类错误统一 400
		return http.StatusBadRequest
	}
}

// Fail 将错误写为响应，并挂到 gin.Context 供日志中间件记录
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)

	e, ok := pkgerrors.As(err)
	if !ok {
		Error(c, http.StatusBadRequest, "", err.Error())
		return
	}
	Error(c, StatusOf(e.Kind), e.Location, e.Msg)
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, location, msg string) {
	Error(c, http.StatusBadRequest, location, msg)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, location, msg string) {
	Error(c, http.StatusUnauthorized, location, msg)
}

// Forbidden 403
func Forbidden(c *gin.Context, location, msg string) {
	Error(c, http.StatusForbidden, location, msg)
}

// TooManyRequests 429
func TooManyRequests(c *gin.Context) {
	Error(c, http.StatusTooManyRequests, "server", "too many requests")
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "server", "internal server error")
}
