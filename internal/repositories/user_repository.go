package repositories

import (
	"context"

	"rentals/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create stores user together with whichever profiles are set on it, in
	// one transaction.
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetWithProfiles loads the user with its tenant and operator profiles.
	GetWithProfiles(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	// ListTenants returns users holding the tenant role, or no role at all,
	// with their preferences preloaded.
	ListTenants(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id string) error
}
