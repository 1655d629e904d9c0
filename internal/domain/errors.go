package domain

import (
	"errors"
	"fmt"

	"git.appkode.ru/pub/go/failure"
)

// ErrDuplicate - нарушение уникального ключа в хранилище. Для конвейера это
// сигнал дедупликации, а не ошибка.
var ErrDuplicate = errors.New("duplicate key")

// AppError - инфраструктурная ошибка с кодом для логов и ответа API.
type AppError struct {
	Code    failure.ErrorCode
	Message string
	cause   error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func NewError(code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WrapError сохраняет исходную ошибку, errors.Is продолжает работать
// (в том числе с ErrDuplicate).
func WrapError(err error, code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   err,
	}
}

// GetCode извлекает код из AppError или из failure-ошибки.
func GetCode(err error) (failure.ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}

	if code := failure.Code(err); code != "" {
		return code, true
	}

	return "", false
}

// IsDuplicate - true, если где-то в цепочке лежит ErrDuplicate.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
