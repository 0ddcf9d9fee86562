package services

import (
	"errors"
	"strings"

	"github.com/diewo77/go-profiles/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
)

// Entity names used by NotFoundError.
const (
	EntityProfile  = "profile"
	EntityUserType = "user_type"
	EntityUserRole = "user_role"
)

// Operations that qualify a NotFoundError message.
const (
	OpGet    = ""
	OpUpdate = "update"
	OpDelete = "delete"
)

// ValidationError carries field-keyed violation codes, or a single message code when the
// input could not be read field by field.
type ValidationError struct {
	Code       string
	Violations validation.Violations
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed: " + e.Code
	}
	fields := make([]string, 0, len(e.Violations))
	for f, c := range e.Violations {
		fields = append(fields, f+"="+c)
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

// Invalid wraps violations into a ValidationError, or returns nil when there are none.
func Invalid(v validation.Violations) error {
	if v.Empty() {
		return nil
	}
	return &ValidationError{Code: "invalid_data", Violations: v}
}

// NotFoundError reports a missing entity for a given operation.
type NotFoundError struct {
	Entity string
	Op     string
}

func (e *NotFoundError) Error() string {
	if e.Op == OpGet {
		return e.Entity + " not found"
	}
	return e.Entity + " to " + e.Op + " not found"
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Code is the i18n key of the error message.
func (e *NotFoundError) Code() string {
	if e.Op == OpGet {
		return e.Entity + "_not_found"
	}
	return e.Entity + "_" + e.Op + "_not_found"
}
