package errors

import (
	"errors"
	"net/http"
)

// Kind 错误分类，决定 HTTP 状态码
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindRateLimited
)

// HTTPStatus 返回分类对应的 HTTP 状态码
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// AppError 业务错误
// Message 直接返回给客户端，不得包含底层错误细节
type AppError struct {
	Kind    Kind
	Code    int
	Message string
}

func (e *AppError) Error() string { return e.Message }

// New 创建业务错误
func New(kind Kind, code int, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

// Validation 创建参数校验错误（用于动态消息，如批量导入的行号）
func Validation(code int, message string) *AppError {
	return New(KindValidation, code, message)
}

// As 提取 AppError；非业务错误返回 false
func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// KindOf 返回错误分类，非业务错误视为内部错误
func KindOf(err error) Kind {
	if ae, ok := As(err); ok {
		return ae.Kind
	}
	return KindInternal
}

// 通用错误
var (
	ErrInvalidParams   = New(KindValidation, 10001, "参数校验失败")
	ErrUnauthenticated = New(KindUnauthenticated, 10002, "未认证")
	ErrForbidden       = New(KindForbidden, 10003, "无权限访问")
	ErrInvalidToken    = New(KindUnauthenticated, 10004, "Token 无效或已过期")
	ErrTooManyRequests = New(KindRateLimited, 10005, "请求过于频繁，请稍后再试")
	ErrInvalidID       = New(KindValidation, 10006, "ID 格式无效")
)
