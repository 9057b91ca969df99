package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"rentals/internal/apperrors"
	"rentals/internal/models"
)

// GORMMediaRepository is a GORM implementation of MediaRepository.
type GORMMediaRepository struct {
	db *gorm.DB
}

// NewGORMMediaRepository creates a new instance of GORMMediaRepository.
func NewGORMMediaRepository(db *gorm.DB) *GORMMediaRepository {
	return &GORMMediaRepository{
		db: db,
	}
}

// ListByProperty retrieves a property's media in display order.
func (r *GORMMediaRepository) ListByProperty(ctx context.Context, propertyID string) ([]models.PropertyMedia, error) {
	var media []models.PropertyMedia
	err := orderedMedia(r.db.WithContext(ctx)).
		Where("property_id = ?", propertyID).
		Find(&media).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list media of property %s: %w", propertyID, err)
	}
	return media, nil
}

// GetByID retrieves one media entry of a property.
func (r *GORMMediaRepository) GetByID(ctx context.Context, propertyID, mediaID string) (*models.PropertyMedia, error) {
	var media models.PropertyMedia
	err := r.db.WithContext(ctx).
		First(&media, "id = ? AND property_id = ?", mediaID, propertyID).Error
	if err != nil {
		return nil, translateError(err, "get", "media with ID "+mediaID)
	}
	return &media, nil
}

// Append stores media at the end of the property's gallery.
func (r *GORMMediaRepository) Append(ctx context.Context, media *models.PropertyMedia) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stats struct {
			MaxIndex *int
			Featured int64
		}
		err := tx.Model(&models.PropertyMedia{}).
			Select("MAX(order_index) AS max_index, COALESCE(SUM(CASE WHEN is_featured THEN 1 ELSE 0 END), 0) AS featured").
			Where("property_id = ?", media.PropertyID).
			Scan(&stats).Error
		if err != nil {
			return fmt.Errorf("failed to inspect media of property %s: %w", media.PropertyID, err)
		}

		media.OrderIndex = 0
		if stats.MaxIndex != nil {
			media.OrderIndex = *stats.MaxIndex + 1
		}
		if stats.Featured == 0 {
			media.IsFeatured = true
		} else if media.IsFeatured {
			if err := clearFeatured(tx, media.PropertyID); err != nil {
				return err
			}
		}
		if err := tx.Create(media).Error; err != nil {
			return translateError(err, "create", "media")
		}
		return nil
	})
}

// Reorder rewrites order_index for every media of the property.
func (r *GORMMediaRepository) Reorder(ctx context.Context, propertyID string, mediaIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []string
		if err := tx.Model(&models.PropertyMedia{}).Where("property_id = ?", propertyID).Pluck("id", &existing).Error; err != nil {
			return fmt.Errorf("failed to list media of property %s: %w", propertyID, err)
		}
		known := make(map[string]bool, len(existing))
		for _, id := range existing {
			known[id] = true
		}
		if len(mediaIDs) != len(existing) {
			return apperrors.Validation("media order must list every media of the property exactly once", nil)
		}
		for _, id := range mediaIDs {
			if !known[id] {
				return apperrors.Validation(fmt.Sprintf("media %s is not part of this property or is listed twice", id), nil)
			}
			delete(known, id)
		}

		for i, id := range mediaIDs {
			err := tx.Model(&models.PropertyMedia{}).
				Where("id = ? AND property_id = ?", id, propertyID).
				Update("order_index", i).Error
			if err != nil {
				return fmt.Errorf("failed to reorder media %s: %w", id, err)
			}
		}
		return nil
	})
}

func clearFeatured(tx *gorm.DB, propertyID string) error {
	err := tx.Model(&models.PropertyMedia{}).
		Where("property_id = ? AND is_featured = ?", propertyID, true).
		Update("is_featured", false).Error
	if err != nil {
		return fmt.Errorf("failed to clear featured media of property %s: %w", propertyID, err)
	}
	return nil
}

// SetFeatured marks one media as featured and clears the flag on the rest.
func (r *GORMMediaRepository) SetFeatured(ctx context.Context, propertyID, mediaID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var media models.PropertyMedia
		if err := tx.First(&media, "id = ? AND property_id = ?", mediaID, propertyID).Error; err != nil {
			return translateError(err, "get", "media with ID "+mediaID)
		}
		if err := clearFeatured(tx, propertyID); err != nil {
			return err
		}
		if err := tx.Model(&media).Update("is_featured", true).Error; err != nil {
			return fmt.Errorf("failed to feature media %s: %w", mediaID, err)
		}
		return nil
	})
}

// Delete removes one media entry. When the featured entry goes, the next one
// in display order takes over.
func (r *GORMMediaRepository) Delete(ctx context.Context, propertyID, mediaID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var media models.PropertyMedia
		if err := tx.First(&media, "id = ? AND property_id = ?", mediaID, propertyID).Error; err != nil {
			return translateError(err, "get", "media with ID "+mediaID)
		}
		if err := tx.Delete(&media).Error; err != nil {
			return fmt.Errorf("failed to delete media %s: %w", mediaID, err)
		}
		if !media.IsFeatured {
			return nil
		}

		var next models.PropertyMedia
		err := orderedMedia(tx).Where("property_id = ?", propertyID).Limit(1).Find(&next).Error
		if err != nil {
			return fmt.Errorf("failed to find next media of property %s: %w", propertyID, err)
		}
		if next.ID == "" {
			return nil
		}
		return tx.Model(&next).Update("is_featured", true).Error
	})
}
