package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrEmailTaken           = errors.New("email already registered")
	// ErrStateConflict 登记已不在 PENDING，审核动作被拒绝
	ErrStateConflict = errors.New("registration is not pending")
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors 显式校验结果；在任何落库动作之前消费。
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(fe))
	for _, f := range fe {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return strings.Join(parts, "; ")
}

func (fe *FieldErrors) require(field, value string) {
	if strings.TrimSpace(value) == "" {
		*fe = append(*fe, FieldError{Field: field, Message: "is required"})
	}
}

func (fe FieldErrors) orNil() error {
	if len(fe) == 0 {
		return nil
	}
	return fe
}
