package repositories

import (
	"context"

	"rentals/internal/models"
)

// ProfileRepository defines the interface for per-user profile data access.
// Each user owns at most one row of each kind; Save inserts or replaces it.
type ProfileRepository interface {
	GetPreferences(ctx context.Context, userID string) (*models.Preferences, error)
	SavePreferences(ctx context.Context, prefs *models.Preferences) error
	GetTenantProfile(ctx context.Context, userID string) (*models.TenantProfile, error)
	SaveTenantProfile(ctx context.Context, profile *models.TenantProfile) error
	GetOperatorProfile(ctx context.Context, userID string) (*models.OperatorProfile, error)
	SaveOperatorProfile(ctx context.Context, profile *models.OperatorProfile) error
}

// SavedRepository defines data access for a user's saved properties. The
// favourites and the shortlist share this shape.
type SavedRepository interface {
	List(ctx context.Context, userID string) ([]models.Property, error)
	// Add is idempotent: saving a property twice keeps one entry.
	Add(ctx context.Context, userID, propertyID string) error
	Remove(ctx context.Context, userID, propertyID string) error
}
