package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"rentals/internal/apperrors"
	"rentals/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// GORMPropertyRepository is a GORM implementation of PropertyRepository.
type GORMPropertyRepository struct {
	db *gorm.DB
}

// NewGORMPropertyRepository creates a new instance of GORMPropertyRepository.
func NewGORMPropertyRepository(db *gorm.DB) *GORMPropertyRepository {
	return &GORMPropertyRepository{
		db: db,
	}
}

func orderedMedia(db *gorm.DB) *gorm.DB {
	return db.Order("order_index ASC").Order("created_at ASC")
}

func (f PropertyFilter) apply(db *gorm.DB) *gorm.DB {
	if f.OperatorID != "" {
		db = db.Where("operator_id = ?", f.OperatorID)
	}
	if f.MinPrice != nil {
		db = db.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		db = db.Where("price <= ?", *f.MaxPrice)
	}
	if f.MinBedrooms != nil {
		db = db.Where("bedrooms >= ?", *f.MinBedrooms)
	}
	if f.PropertyType != "" {
		db = db.Where("property_type = ?", f.PropertyType)
	}
	if f.Furnishing != "" {
		db = db.Where("furnishing = ?", f.Furnishing)
	}
	return db
}

// Page clamps Limit and Offset to the supported range.
func (f PropertyFilter) Page() (limit, offset int) {
	limit, offset = f.Limit, f.Offset
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// List retrieves a filtered page of properties with their media.
func (r *GORMPropertyRepository) List(ctx context.Context, filter PropertyFilter) ([]models.Property, int64, error) {
	db := r.db.WithContext(ctx)

	var total int64
	if err := filter.apply(db.Model(&models.Property{})).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	limit, offset := filter.Page()
	var properties []models.Property
	err := filter.apply(db).
		Preload("Media", orderedMedia).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&properties).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, total, nil
}

// GetByID retrieves a single property by its ID with ordered media.
func (r *GORMPropertyRepository) GetByID(ctx context.Context, id string) (*models.Property, error) {
	var property models.Property
	err := r.db.WithContext(ctx).
		Preload("Media", orderedMedia).
		First(&property, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err, "get", "property with ID "+id)
	}
	return &property, nil
}

// Create creates a new property and its media.
func (r *GORMPropertyRepository) Create(ctx context.Context, property *models.Property) error {
	media := property.Media
	property.Media = nil
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Operator", "Media").Create(property).Error; err != nil {
			return translateError(err, "create", "property")
		}
		featured := false
		for i := range media {
			media[i].PropertyID = property.ID
			media[i].OrderIndex = i
			// Only the first entry flagged as featured keeps the flag.
			if media[i].IsFeatured {
				media[i].IsFeatured = !featured
				featured = true
			}
		}
		if len(media) > 0 && !featured {
			media[0].IsFeatured = true
		}
		if len(media) > 0 {
			if err := tx.Create(&media).Error; err != nil {
				return translateError(err, "create", "property media")
			}
		}
		return nil
	})
	property.Media = media
	return err
}

// Update saves every listing field of an existing property.
func (r *GORMPropertyRepository) Update(ctx context.Context, property *models.Property) error {
	res := r.db.WithContext(ctx).
		Model(property).
		Select("*").
		Omit("id", "operator_id", "created_at", "Operator", "Media").
		Updates(property)
	if res.Error != nil {
		return translateError(res.Error, "update", "property with ID "+property.ID)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("property with ID %s not found", property.ID)
	}
	return nil
}

// Delete deletes a property by its ID. Media rows cascade.
func (r *GORMPropertyRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Property{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete property: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("property with ID %s not found", id)
	}
	return nil
}

// Stats counts the operator's listings and the activity on them.
func (r *GORMPropertyRepository) Stats(ctx context.Context, operatorID string) (*DashboardStats, error) {
	db := r.db.WithContext(ctx)
	owned := db.Model(&models.Property{}).Select("id").Where("operator_id = ?", operatorID)

	var stats DashboardStats
	counts := []struct {
		name  string
		query *gorm.DB
		dest  *int64
	}{
		{"properties", db.Model(&models.Property{}).Where("operator_id = ?", operatorID), &stats.Properties},
		{"media", db.Model(&models.PropertyMedia{}).Where("property_id IN (?)", owned), &stats.Media},
		{"favourites", db.Model(&models.Favourite{}).Where(`"propertyId" IN (?)`, owned), &stats.Favourites},
		{"shortlists", db.Model(&models.Shortlist{}).Where(`"propertyId" IN (?)`, owned), &stats.Shortlists},
		{"tenants", db.Model(&models.TenantProfile{}), &stats.Tenants},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", c.name, err)
		}
	}
	return &stats, nil
}
