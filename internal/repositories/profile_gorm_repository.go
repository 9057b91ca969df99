package repositories

import (
	"context"

	"gorm.io/gorm"

	"rentals/internal/models"
)

// GORMProfileRepository is a GORM implementation of ProfileRepository.
type GORMProfileRepository struct {
	db *gorm.DB
}

// NewGORMProfileRepository creates a new instance of GORMProfileRepository.
func NewGORMProfileRepository(db *gorm.DB) *GORMProfileRepository {
	return &GORMProfileRepository{
		db: db,
	}
}

// userColumn is the foreign key column of each per-user table.
func userColumn(model interface{}) string {
	switch model.(type) {
	case *models.Preferences:
		return "user_id"
	default:
		return `"userId"`
	}
}

func (r *GORMProfileRepository) get(ctx context.Context, dest interface{}, what, userID string) error {
	err := r.db.WithContext(ctx).First(dest, userColumn(dest)+" = ?", userID).Error
	if err != nil {
		return translateError(err, "get", what+" of user "+userID)
	}
	return nil
}

// save loads the user's current row into existing, lets adopt copy its id and
// creation time onto row, then inserts or replaces row.
func (r *GORMProfileRepository) save(ctx context.Context, row, existing interface{}, what, userID string, adopt func()) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Limit(1).Find(existing, userColumn(existing)+" = ?", userID)
		if res.Error != nil {
			return translateError(res.Error, "get", what+" of user "+userID)
		}
		adopt()
		if res.RowsAffected == 0 {
			if err := tx.Omit("User").Create(row).Error; err != nil {
				return translateError(err, "create", what+" of user "+userID)
			}
			return nil
		}
		if err := tx.Omit("User").Save(row).Error; err != nil {
			return translateError(err, "update", what+" of user "+userID)
		}
		return nil
	})
}

// GetPreferences retrieves the user's search preferences.
func (r *GORMProfileRepository) GetPreferences(ctx context.Context, userID string) (*models.Preferences, error) {
	var prefs models.Preferences
	if err := r.get(ctx, &prefs, "preferences", userID); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// SavePreferences upserts the user's preferences.
func (r *GORMProfileRepository) SavePreferences(ctx context.Context, prefs *models.Preferences) error {
	var existing models.Preferences
	return r.save(ctx, prefs, &existing, "preferences", prefs.UserID, func() {
		prefs.ID, prefs.CreatedAt = existing.ID, existing.CreatedAt
	})
}

// GetTenantProfile retrieves the user's tenant profile.
func (r *GORMProfileRepository) GetTenantProfile(ctx context.Context, userID string) (*models.TenantProfile, error) {
	var profile models.TenantProfile
	if err := r.get(ctx, &profile, "tenant profile", userID); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SaveTenantProfile upserts the user's tenant profile.
func (r *GORMProfileRepository) SaveTenantProfile(ctx context.Context, profile *models.TenantProfile) error {
	var existing models.TenantProfile
	return r.save(ctx, profile, &existing, "tenant profile", profile.UserID, func() {
		profile.ID, profile.CreatedAt = existing.ID, existing.CreatedAt
	})
}

// GetOperatorProfile retrieves the user's operator profile.
func (r *GORMProfileRepository) GetOperatorProfile(ctx context.Context, userID string) (*models.OperatorProfile, error) {
	var profile models.OperatorProfile
	if err := r.get(ctx, &profile, "operator profile", userID); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SaveOperatorProfile upserts the user's operator profile.
func (r *GORMProfileRepository) SaveOperatorProfile(ctx context.Context, profile *models.OperatorProfile) error {
	var existing models.OperatorProfile
	return r.save(ctx, profile, &existing, "operator profile", profile.UserID, func() {
		profile.ID, profile.CreatedAt = existing.ID, existing.CreatedAt
	})
}
