package apperrors_test

import (
	"fmt"
	"testing"

	"rentals/internal/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestKindsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("loading property: %w", apperrors.NotFound("property with ID %s not found", "p-1"))

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NotErrorIs(t, err, apperrors.ErrForbidden)

	msg, ok := apperrors.Message(err)
	assert.True(t, ok)
	assert.Equal(t, "property with ID p-1 not found", msg)
}

func TestValidationCarriesFields(t *testing.T) {
	err := apperrors.Validation("Validation failed", map[string]string{"email": "required"})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, map[string]string{"email": "required"}, apperrors.Fields(err))
	assert.Nil(t, apperrors.Fields(fmt.Errorf("plain")))
}
