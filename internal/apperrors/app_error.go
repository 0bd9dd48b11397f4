package apperrors

import (
	"errors"
	"net/http"
)

// 错误类别，调用方通过 errors.Is 判断
var (
	ErrValidation    = errors.New("validation error")
	ErrDuplicateCode = errors.New("duplicate code")
	ErrNotFound      = errors.New("not found")
	ErrSystem        = errors.New("system error")
)

// AppError 自定义错误类型
// Message 同时作为 i18n 的 MessageID，未命中翻译时直接展示
type AppError struct {
	Kind    error
	Code    int
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is 让 errors.Is(err, ErrNotFound) 等判断生效
func (e *AppError) Is(target error) bool {
	return e.Kind != nil && e.Kind == target
}

// WithCause 附加底层错误
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// ValidationError 参数校验错误
func ValidationError(message string) *AppError {
	return &AppError{Kind: ErrValidation, Code: http.StatusBadRequest, Message: message}
}

// InvalidRequestErrorDefault 默认参数校验错误
func InvalidRequestErrorDefault() *AppError {
	return ValidationError("error.invalid_request")
}

// DuplicateCodeError 短码已被占用（包括已删除记录的短码）
func DuplicateCodeError(message string) *AppError {
	return &AppError{Kind: ErrDuplicateCode, Code: http.StatusConflict, Message: message}
}

// NotFoundError 短码不存在
func NotFoundError(message string) *AppError {
	return &AppError{Kind: ErrNotFound, Code: http.StatusNotFound, Message: message}
}

// SystemError 封装系统内部错误
func SystemError(message string) *AppError {
	return &AppError{Kind: ErrSystem, Code: http.StatusInternalServerError, Message: message}
}

// SystemErrorDefault 默认系统内部错误
func SystemErrorDefault() *AppError {
	return SystemError("error.system")
}
