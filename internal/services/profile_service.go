package services

import (
	"context"

	"rentals/internal/models"
	"rentals/internal/repositories"
)

// ProfileService reads and upserts the per-user records: search preferences
// and the tenant and operator profiles. Every call is scoped to the caller.
type ProfileService struct {
	repo repositories.ProfileRepository
}

// NewProfileService creates a new ProfileService.
func NewProfileService(repo repositories.ProfileRepository) *ProfileService {
	return &ProfileService{
		repo: repo,
	}
}

func (s *ProfileService) GetPreferences(ctx context.Context, caller *models.Identity) (*models.Preferences, error) {
	return s.repo.GetPreferences(ctx, caller.ID)
}

func (s *ProfileService) SavePreferences(ctx context.Context, caller *models.Identity, prefs *models.Preferences) (*models.Preferences, error) {
	prefs.UserID = caller.ID
	if err := s.repo.SavePreferences(ctx, prefs); err != nil {
		return nil, err
	}
	return prefs, nil
}

func (s *ProfileService) GetTenantProfile(ctx context.Context, caller *models.Identity) (*models.TenantProfile, error) {
	return s.repo.GetTenantProfile(ctx, caller.ID)
}

func (s *ProfileService) SaveTenantProfile(ctx context.Context, caller *models.Identity, profile *models.TenantProfile) (*models.TenantProfile, error) {
	profile.UserID = caller.ID
	if err := s.repo.SaveTenantProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *ProfileService) GetOperatorProfile(ctx context.Context, caller *models.Identity) (*models.OperatorProfile, error) {
	return s.repo.GetOperatorProfile(ctx, caller.ID)
}

func (s *ProfileService) SaveOperatorProfile(ctx context.Context, caller *models.Identity, profile *models.OperatorProfile) (*models.OperatorProfile, error) {
	profile.UserID = caller.ID
	if err := s.repo.SaveOperatorProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
