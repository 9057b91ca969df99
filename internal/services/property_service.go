package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"rentals/internal/apperrors"
	"rentals/internal/metrics"
	"rentals/internal/models"
	"rentals/internal/repositories"
)

// MediaInput describes media that is already stored, attached at creation time.
type MediaInput struct {
	URL              string           `json:"url" validate:"required,url"`
	S3Key            string           `json:"s3_key"`
	Type             models.MediaType `json:"type" validate:"omitempty,oneof=image video"`
	MimeType         string           `json:"mime_type"`
	OriginalFilename string           `json:"original_filename"`
	FileSize         int64            `json:"file_size" validate:"gte=0"`
	IsFeatured       bool             `json:"is_featured"`
}

// PropertyInput is the request body for creating or updating a listing.
type PropertyInput struct {
	Title             string       `json:"title" validate:"required,max=255"`
	Description       string       `json:"description" validate:"required"`
	Address           string       `json:"address" validate:"required"`
	Price             float64      `json:"price" validate:"gte=0"`
	Bedrooms          int          `json:"bedrooms" validate:"gte=0"`
	Bathrooms         int          `json:"bathrooms" validate:"gte=0"`
	PropertyType      string       `json:"property_type" validate:"required"`
	Furnishing        string       `json:"furnishing" validate:"required"`
	LifestyleFeatures []string     `json:"lifestyle_features"`
	AvailableFrom     *models.Date `json:"available_from"`
	Images            []string     `json:"images" validate:"dive,url"`
	IsBTR             bool         `json:"is_btr"`
	Lat               *float64     `json:"lat" validate:"omitempty,gte=-90,lte=90"`
	Lng               *float64     `json:"lng" validate:"omitempty,gte=-180,lte=180"`
	Media             []MediaInput `json:"media" validate:"dive"`
}

func (in PropertyInput) apply(p *models.Property) {
	p.Title = in.Title
	p.Description = in.Description
	p.Address = in.Address
	p.Price = in.Price
	p.Bedrooms = in.Bedrooms
	p.Bathrooms = in.Bathrooms
	p.PropertyType = in.PropertyType
	p.Furnishing = in.Furnishing
	p.LifestyleFeatures = in.LifestyleFeatures
	p.AvailableFrom = in.AvailableFrom
	p.Images = in.Images
	p.IsBTR = in.IsBTR
	p.Lat = in.Lat
	p.Lng = in.Lng
}

// PropertyPage is one page of a property listing.
type PropertyPage struct {
	Data   []models.Property `json:"data"`
	Total  int64             `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

// PropertyService handles business logic related to property listings.
type PropertyService struct {
	repo   repositories.PropertyRepository
	store  MediaStore
	events EventPublisher
	log    logrus.FieldLogger
}

// NewPropertyService creates a new PropertyService. store and events may be nil.
func NewPropertyService(repo repositories.PropertyRepository, store MediaStore, events EventPublisher, log logrus.FieldLogger) *PropertyService {
	return &PropertyService{
		repo:   repo,
		store:  store,
		events: events,
		log:    log,
	}
}

// ensureOwner rejects callers that neither own the property nor are admins.
func ensureOwner(p *models.Property, caller *models.Identity) error {
	if p.OperatorID == caller.ID || caller.HasRole(models.RoleAdmin) {
		return nil
	}
	return apperrors.Forbidden("property %s belongs to another operator", p.ID)
}

// List retrieves one page of properties.
func (s *PropertyService) List(ctx context.Context, filter repositories.PropertyFilter) (*PropertyPage, error) {
	properties, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if properties == nil {
		properties = []models.Property{}
	}
	limit, offset := filter.Page()
	return &PropertyPage{Data: properties, Total: total, Limit: limit, Offset: offset}, nil
}

// Get retrieves a property with its media.
func (s *PropertyService) Get(ctx context.Context, id string) (*models.Property, error) {
	return s.repo.GetByID(ctx, id)
}

// GetOwned retrieves a property the caller may modify.
func (s *PropertyService) GetOwned(ctx context.Context, caller *models.Identity, id string) (*models.Property, error) {
	property, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ensureOwner(property, caller); err != nil {
		return nil, err
	}
	return property, nil
}

// Create stores a new listing owned by the caller.
func (s *PropertyService) Create(ctx context.Context, caller *models.Identity, in PropertyInput) (*models.Property, error) {
	property := &models.Property{OperatorID: caller.ID}
	in.apply(property)
	for _, m := range in.Media {
		property.Media = append(property.Media, models.PropertyMedia{
			URL:              m.URL,
			S3Key:            m.S3Key,
			Type:             m.Type,
			MimeType:         m.MimeType,
			OriginalFilename: m.OriginalFilename,
			FileSize:         m.FileSize,
			IsFeatured:       m.IsFeatured,
		})
	}

	if err := s.repo.Create(ctx, property); err != nil {
		return nil, err
	}
	metrics.PropertiesCreatedTotal.Inc()
	s.log.WithFields(logrus.Fields{"property_id": property.ID, "operator_id": caller.ID}).Info("Property created")

	publish(ctx, s.events, s.log, EventPropertyCreated, map[string]interface{}{
		"property_id": property.ID,
		"operator_id": property.OperatorID,
		"title":       property.Title,
		"price":       property.Price,
	})
	return property, nil
}

// Update replaces the listing fields of a property owned by the caller.
// Media is managed through MediaService.
func (s *PropertyService) Update(ctx context.Context, caller *models.Identity, id string, in PropertyInput) (*models.Property, error) {
	property, err := s.GetOwned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	in.apply(property)
	if err := s.repo.Update(ctx, property); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Delete removes a property owned by the caller together with its media and
// the stored media objects.
func (s *PropertyService) Delete(ctx context.Context, caller *models.Identity, id string) error {
	property, err := s.GetOwned(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	removeObjects(ctx, s.store, s.log, property.Media...)
	return nil
}

// removeObjects deletes stored media objects. Rows are already gone, so a
// failure only leaves an orphaned object behind and is logged.
func removeObjects(ctx context.Context, store MediaStore, log logrus.FieldLogger, media ...models.PropertyMedia) {
	if store == nil {
		return
	}
	for _, m := range media {
		if m.S3Key == "" {
			continue
		}
		if err := store.Delete(ctx, m.S3Key); err != nil {
			log.WithError(err).WithField("s3_key", m.S3Key).Warn("Failed to delete media object")
		}
	}
}

// ListByOperator retrieves every listing of an operator.
func (s *PropertyService) ListByOperator(ctx context.Context, operatorID string, limit, offset int) (*PropertyPage, error) {
	return s.List(ctx, repositories.PropertyFilter{OperatorID: operatorID, Limit: limit, Offset: offset})
}
