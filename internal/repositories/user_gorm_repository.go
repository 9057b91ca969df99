package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"rentals/internal/apperrors"
	"rentals/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user and its profiles in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	tenant, operator := user.TenantProfile, user.OperatorProfile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("TenantProfile", "OperatorProfile").Create(user).Error; err != nil {
			return translateError(err, "create", "user "+user.Email)
		}
		if tenant != nil {
			tenant.UserID = user.ID
			if err := tx.Create(tenant).Error; err != nil {
				return translateError(err, "create", "tenant profile")
			}
		}
		if operator != nil {
			operator.UserID = user.ID
			if err := tx.Create(operator).Error; err != nil {
				return translateError(err, "create", "operator profile")
			}
		}
		return nil
	})
	return err
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, translateError(err, "get", "user with email "+email)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translateError(err, "get", "user with ID "+id)
	}
	return &user, nil
}

// GetWithProfiles retrieves a user with both profiles preloaded.
func (r *GORMUserRepository) GetWithProfiles(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("TenantProfile").
		Preload("OperatorProfile").
		First(&user, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err, "get", "user with ID "+id)
	}
	return &user, nil
}

// List retrieves every user, newest first.
func (r *GORMUserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ListTenants retrieves tenants with their preferences.
func (r *GORMUserRepository) ListTenants(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Preload("Preferences").
		Where("roles IS NULL OR roles = '' OR roles LIKE ?", "%"+string(models.RoleTenant)+"%").
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	// LIKE matches substrings; keep only exact role members.
	tenants := users[:0]
	for _, u := range users {
		if u.HasRole(models.RoleTenant) {
			tenants = append(tenants, u)
		}
	}
	return tenants, nil
}

// Delete removes a user. Dependent rows go with it through foreign key cascades.
func (r *GORMUserRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("user with ID %s not found", id)
	}
	return nil
}
