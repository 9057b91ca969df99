package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"rentals/internal/apperrors"
)

// translateError maps gorm errors onto application error kinds. what names
// the record for the user-facing message, e.g. "property with ID 42".
func translateError(err error, action, what string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound("%s not found", what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Conflict("%s already exists", what)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperrors.Conflict("%s references a record that does not exist", what)
	}
	return fmt.Errorf("failed to %s %s: %w", action, what, err)
}
