package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"rentals/internal/models"
)

// GORMSavedRepository is a GORM implementation of SavedRepository over either
// the favourites or the shortlist table.
type GORMSavedRepository struct {
	db    *gorm.DB
	table string
	entry func(userID, propertyID string) interface{}
}

// NewGORMFavouriteRepository creates a SavedRepository over favourites.
func NewGORMFavouriteRepository(db *gorm.DB) *GORMSavedRepository {
	return &GORMSavedRepository{
		db:    db,
		table: models.Favourite{}.TableName(),
		entry: func(userID, propertyID string) interface{} {
			return &models.Favourite{UserID: userID, PropertyID: propertyID}
		},
	}
}

// NewGORMShortlistRepository creates a SavedRepository over the shortlist.
func NewGORMShortlistRepository(db *gorm.DB) *GORMSavedRepository {
	return &GORMSavedRepository{
		db:    db,
		table: models.Shortlist{}.TableName(),
		entry: func(userID, propertyID string) interface{} {
			return &models.Shortlist{UserID: userID, PropertyID: propertyID}
		},
	}
}

func (r *GORMSavedRepository) scope(db *gorm.DB, userID, propertyID string) *gorm.DB {
	return db.Table(r.table).Where(`"userId" = ? AND "propertyId" = ?`, userID, propertyID)
}

// List retrieves the saved properties of a user, most recently saved first.
func (r *GORMSavedRepository) List(ctx context.Context, userID string) ([]models.Property, error) {
	var properties []models.Property
	err := r.db.WithContext(ctx).
		Joins(fmt.Sprintf(`JOIN %s AS saved ON saved."propertyId" = properties.id`, r.table)).
		Where(`saved."userId" = ?`, userID).
		Preload("Media", orderedMedia).
		Order("saved.created_at DESC").
		Find(&properties).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s of user %s: %w", r.table, userID, err)
	}
	return properties, nil
}

// Add saves a property for the user unless it is already saved.
func (r *GORMSavedRepository) Add(ctx context.Context, userID, propertyID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := r.scope(tx, userID, propertyID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check %s entry: %w", r.table, err)
		}
		if count > 0 {
			return nil
		}
		if err := tx.Create(r.entry(userID, propertyID)).Error; err != nil {
			return translateError(err, "create", r.table+" entry for property "+propertyID)
		}
		return nil
	})
}

// Remove deletes the user's entry for a property. Removing an absent entry is
// not an error.
func (r *GORMSavedRepository) Remove(ctx context.Context, userID, propertyID string) error {
	err := r.db.WithContext(ctx).
		Where(`"userId" = ? AND "propertyId" = ?`, userID, propertyID).
		Delete(r.entry(userID, propertyID)).Error
	if err != nil {
		return fmt.Errorf("failed to remove %s entry: %w", r.table, err)
	}
	return nil
}
