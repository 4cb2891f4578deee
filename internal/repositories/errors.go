package repositories

import (
	"errors"
	"fmt"
	"strings"

	"tunebox/internal/apperr"

	"gorm.io/gorm"
)

// isDuplicate reports a unique-constraint violation. The string checks cover drivers
// that do not implement gorm's error translation.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}

// translate maps storage errors onto the apperr taxonomy, wrapping anything else.
func translate(err error, entity, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &apperr.Error{Code: apperr.CodeNotFound, Message: entity + " not found", Err: err}
	case isDuplicate(err):
		return &apperr.Error{Code: apperr.CodeConflict, Message: entity + " already exists", Err: err}
	default:
		return fmt.Errorf("failed to %s %s: %w", op, entity, err)
	}
}
