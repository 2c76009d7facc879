package usecase

import (
	"errors"
	"fmt"

	"github.com/Softwarehamid/auto-shop-booking/pkg/database"
	"github.com/Softwarehamid/auto-shop-booking/pkg/utils"
)

var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrSlotAlreadyTaken  = errors.New("timeslot already taken")
	ErrNotFound          = errors.New("not found")
	ErrUnavailable       = errors.New("service temporarily unavailable")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrUnauthorized      = errors.New("unauthorized")
)

// ValidationError carries per-field messages keyed by JSON field name.
// It matches ErrInvalidRequest under errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidRequest, utils.FormatValidationErrors(e.Fields))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

func newValidationError(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}

func fieldError(field, msg string) error {
	return newValidationError(map[string]string{field: msg})
}

// storageError classifies an infrastructure failure. Slow or unreachable storage surfaces
// as ErrUnavailable so callers fail closed and may retry.
func storageError(op string, err error) error {
	if database.IsUnavailable(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
