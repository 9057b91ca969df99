package services

import (
	"context"

	"rentals/internal/models"
	"rentals/internal/repositories"
)

// SavedService manages one of the caller's saved-property lists.
type SavedService struct {
	saved      repositories.SavedRepository
	properties repositories.PropertyRepository
}

// NewSavedService creates a new SavedService over the favourites or the
// shortlist repository.
func NewSavedService(saved repositories.SavedRepository, properties repositories.PropertyRepository) *SavedService {
	return &SavedService{
		saved:      saved,
		properties: properties,
	}
}

func (s *SavedService) List(ctx context.Context, caller *models.Identity) ([]models.Property, error) {
	properties, err := s.saved.List(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	if properties == nil {
		properties = []models.Property{}
	}
	return properties, nil
}

// Add saves a property after checking it exists.
func (s *SavedService) Add(ctx context.Context, caller *models.Identity, propertyID string) error {
	if _, err := s.properties.GetByID(ctx, propertyID); err != nil {
		return err
	}
	return s.saved.Add(ctx, caller.ID, propertyID)
}

func (s *SavedService) Remove(ctx context.Context, caller *models.Identity, propertyID string) error {
	return s.saved.Remove(ctx, caller.ID, propertyID)
}
