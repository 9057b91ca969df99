package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentals/internal/apperrors"
	"rentals/internal/logger"
	"rentals/internal/models"
	"rentals/internal/services"
)

func TestOperatorService_SuggestProperty(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	props := new(MockPropertyRepository)
	events := new(MockPublisher)
	service := services.NewOperatorService(users, props, events, logger.Discard())

	in := services.SuggestPropertyInput{TenantID: "tenant-1", PropertyID: "prop-1", Message: "Near your office"}

	// Unknown tenant
	users.On("GetByID", ctx, "tenant-1").Return(nil, apperrors.NotFound("user with ID tenant-1 not found")).Once()
	_, err := service.SuggestProperty(ctx, owner, in)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// Someone else's listing
	users.On("GetByID", ctx, "tenant-1").Return(&models.User{ID: "tenant-1"}, nil)
	props.On("GetByID", ctx, "prop-1").Return(&models.Property{ID: "prop-1", OperatorID: "op-1"}, nil)
	_, err = service.SuggestProperty(ctx, stranger, in)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)

	events.On("Publish", ctx, services.EventPropertySuggested, mock.MatchedBy(func(s *services.Suggestion) bool {
		return s.TenantID == "tenant-1" && s.OperatorID == "op-1" && s.Message == "Near your office"
	})).Return(nil).Once()
	suggestion, err := service.SuggestProperty(ctx, owner, in)
	require.NoError(t, err)
	assert.Equal(t, "prop-1", suggestion.PropertyID)
	events.AssertExpectations(t)
}

func TestSavedService_AddRequiresExistingProperty(t *testing.T) {
	ctx := context.Background()
	saved := new(MockSavedRepository)
	props := new(MockPropertyRepository)
	service := services.NewSavedService(saved, props)

	props.On("GetByID", ctx, "missing").Return(nil, apperrors.NotFound("property with ID missing not found")).Once()
	err := service.Add(ctx, owner, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	saved.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)

	props.On("GetByID", ctx, "prop-1").Return(&models.Property{ID: "prop-1"}, nil).Once()
	saved.On("Add", ctx, "op-1", "prop-1").Return(nil).Once()
	require.NoError(t, service.Add(ctx, owner, "prop-1"))

	saved.On("List", ctx, "op-1").Return(nil, nil).Once()
	list, err := service.List(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)
	saved.AssertExpectations(t)
}
