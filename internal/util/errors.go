package util

import (
	"errors"
	"fmt"
)

// 四类业务错误，controller 统一用 errors.Is 翻译成 HTTP 状态码。
// 存储层自身不可达等基础设施错误不属于这个分类，原样向上抛。
var (
	ErrNotFound   = errors.New("resource not found")
	ErrConflict   = errors.New("conflict with existing record")
	ErrForbidden  = errors.New("permission denied")
	ErrValidation = errors.New("invalid input")
)

// ConflictError 冲突错误，携带阻塞记录的ID便于调用方排查
type ConflictError struct {
	Reason     string
	BlockingID string
}

func (e *ConflictError) Error() string {
	if e.BlockingID != "" {
		return fmt.Sprintf("%s (blocking record: %s)", e.Reason, e.BlockingID)
	}
	return e.Reason
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

func NewConflict(reason, blockingID string) error {
	return &ConflictError{Reason: reason, BlockingID: blockingID}
}

// ValidationError 入参错误，调用方错误，不应重试
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return e.Reason
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
