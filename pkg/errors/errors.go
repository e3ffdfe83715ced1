// Package errors 定义带分类的业务错误
// Kind 决定 HTTP 状态码，Location 指出出错的字段或资源
package errors

import "errors"

// Kind 错误分类
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
	KindValidation
	KindTransient // 存储失败或超时，可重试
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Error 业务错误
type Error struct {
	Kind     Kind
	Location string
	Msg      string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New 创建业务错误
func New(kind Kind, location, msg string) *Error {
	return &Error{Kind: kind, Location: location, Msg: msg}
}

// ── 快捷构造 ──

func NotFound(location, msg string) *Error     { return New(KindNotFound, location, msg) }
func Conflict(location, msg string) *Error     { return New(KindConflict, location, msg) }
func Unauthorized(location, msg string) *Error { return New(KindUnauthorized, location, msg) }
func Forbidden(location, msg string) *Error    { return New(KindForbidden, location, msg) }
func Validation(location, msg string) *Error   { return New(KindValidation, location, msg) }

// Transient 包装存储层错误，Msg 对外可见，底层错误仅用于日志
func Transient(msg string, err error) *Error {
	return &Error{Kind: KindTransient, Location: "server", Msg: msg, Err: err}
}

// As 提取错误链中的业务错误
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf 返回错误分类，非业务错误返回 KindUnknown
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindUnknown
}
