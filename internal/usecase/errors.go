package usecase

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError はHTTPステータス付きのエラー。
// handlerはこれを {success:false, error:{code,message,details}} にする。
type AppError struct {
	Status  int
	Message string
	Details any
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewAppError(status int, message string) error {
	return &AppError{
		Status:  status,
		Message: message,
	}
}

func AsAppError(err error) (*AppError, bool) {
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}

// 400
func NewValidationError(message string, details any) error {
	return &AppError{Status: http.StatusBadRequest, Message: message, Details: details}
}

// 401
func NewUnauthorizedError(message string) error {
	return NewAppError(http.StatusUnauthorized, message)
}

// 403
func NewForbiddenError(message string) error {
	return NewAppError(http.StatusForbidden, message)
}

// 404
func NewNotFoundError(message string) error {
	return NewAppError(http.StatusNotFound, message)
}

// 409
func NewConflictError(message string) error {
	return NewAppError(http.StatusConflict, message)
}

// 500
func NewInternalError() error {
	return NewAppError(http.StatusInternalServerError, "Internal server error")
}

// 入力エラーの詳細（フィールドごと）
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// usecaseの外から来たエラーを AppError に寄せる
func toAppError(err error) error {
	if _, ok := AsAppError(err); ok {
		return err
	}
	return NewInternalError()
}
