package util

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotFound           = errors.New("not found")
	ErrInvalidQuestionSet = errors.New("invalid question set")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrDuplicateName      = errors.New("name already exists")
)

// FieldError 单个字段的校验失败
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// AppError 可直接映射为 HTTP 响应的领域错误
type AppError struct {
	Status  int
	Message string
	Details []FieldError
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string, details ...FieldError) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: message, Details: details}
}

func NewAuthError(message string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Status: http.StatusConflict, Message: message}
}

// classify 将哨兵错误映射为 AppError；无法分类时返回 nil
func classify(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, ErrInvalidQuestionSet):
		return &AppError{Status: http.StatusBadRequest, Message: ErrInvalidQuestionSet.Error(), Err: err}
	case errors.Is(err, ErrInvalidCredentials):
		return &AppError{Status: http.StatusBadRequest, Message: "Invalid credentials", Err: err}
	case errors.Is(err, ErrInvalidToken):
		return &AppError{Status: http.StatusUnauthorized, Message: "Invalid or expired token", Err: err}
	case errors.Is(err, ErrUserExists):
		return &AppError{Status: http.StatusConflict, Message: "User exists", Err: err}
	case errors.Is(err, ErrDuplicateName):
		return &AppError{Status: http.StatusConflict, Message: ErrDuplicateName.Error(), Err: err}
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrNotFound):
		return &AppError{Status: http.StatusNotFound, Message: "Not found", Err: err}
	case errors.Is(err, ErrPermissionDenied):
		return &AppError{Status: http.StatusForbidden, Message: "Forbidden", Err: err}
	}
	return nil
}
