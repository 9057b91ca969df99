package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"rentals/internal/apperrors"
	"rentals/internal/metrics"
	"rentals/internal/models"
	"rentals/internal/repositories"
)

// Upload is one file received for a property's gallery.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	Featured    bool
}

// MediaService manages the media gallery of properties.
type MediaService struct {
	properties *PropertyService
	repo       repositories.MediaRepository
	store      MediaStore
	maxBytes   int64
	log        logrus.FieldLogger
}

// NewMediaService creates a new MediaService. A nil store disables uploads.
func NewMediaService(properties *PropertyService, repo repositories.MediaRepository, store MediaStore, maxBytes int64, log logrus.FieldLogger) *MediaService {
	return &MediaService{
		properties: properties,
		repo:       repo,
		store:      store,
		maxBytes:   maxBytes,
		log:        log,
	}
}

func mediaTypeOf(contentType string) (models.MediaType, bool) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return models.MediaImage, true
	case strings.HasPrefix(contentType, "video/"):
		return models.MediaVideo, true
	}
	return "", false
}

// Upload stores a file and appends it to the gallery of a property owned by
// the caller.
func (s *MediaService) Upload(ctx context.Context, caller *models.Identity, propertyID string, up Upload) (*models.PropertyMedia, error) {
	if s.store == nil {
		return nil, apperrors.Unavailable("media storage is not configured")
	}
	if _, err := s.properties.GetOwned(ctx, caller, propertyID); err != nil {
		return nil, err
	}

	mediaType, ok := mediaTypeOf(up.ContentType)
	if !ok {
		return nil, apperrors.Validation("Validation failed", map[string]string{
			"file": fmt.Sprintf("unsupported content type '%s'", up.ContentType),
		})
	}
	if s.maxBytes > 0 && up.Size > s.maxBytes {
		return nil, apperrors.Validation("Validation failed", map[string]string{
			"file": fmt.Sprintf("file exceeds the %d byte limit", s.maxBytes),
		})
	}

	key := fmt.Sprintf("properties/%s/%s%s", propertyID, uuid.NewString(), strings.ToLower(path.Ext(up.Filename)))
	url, err := s.store.Put(ctx, key, up.ContentType, up.Body, up.Size)
	if err != nil {
		return nil, fmt.Errorf("failed to store media: %w", err)
	}

	media := &models.PropertyMedia{
		PropertyID:       propertyID,
		URL:              url,
		S3Key:            key,
		Type:             mediaType,
		MimeType:         up.ContentType,
		OriginalFilename: up.Filename,
		FileSize:         up.Size,
		IsFeatured:       up.Featured,
	}
	if err := s.repo.Append(ctx, media); err != nil {
		removeObjects(ctx, s.store, s.log, *media)
		return nil, err
	}
	metrics.MediaUploadedTotal.WithLabelValues(string(mediaType)).Inc()
	s.log.WithFields(logrus.Fields{"property_id": propertyID, "media_id": media.ID, "size": up.Size}).Info("Media uploaded")
	return media, nil
}

// Reorder sets the display order of a property's media.
func (s *MediaService) Reorder(ctx context.Context, caller *models.Identity, propertyID string, mediaIDs []string) ([]models.PropertyMedia, error) {
	if _, err := s.properties.GetOwned(ctx, caller, propertyID); err != nil {
		return nil, err
	}
	if err := s.repo.Reorder(ctx, propertyID, mediaIDs); err != nil {
		return nil, err
	}
	return s.repo.ListByProperty(ctx, propertyID)
}

// Feature makes one media the property's only featured media.
func (s *MediaService) Feature(ctx context.Context, caller *models.Identity, propertyID, mediaID string) ([]models.PropertyMedia, error) {
	if _, err := s.properties.GetOwned(ctx, caller, propertyID); err != nil {
		return nil, err
	}
	if err := s.repo.SetFeatured(ctx, propertyID, mediaID); err != nil {
		return nil, err
	}
	return s.repo.ListByProperty(ctx, propertyID)
}

// Delete removes one media entry and its stored object.
func (s *MediaService) Delete(ctx context.Context, caller *models.Identity, propertyID, mediaID string) error {
	if _, err := s.properties.GetOwned(ctx, caller, propertyID); err != nil {
		return err
	}
	media, err := s.repo.GetByID(ctx, propertyID, mediaID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, propertyID, mediaID); err != nil {
		return err
	}
	removeObjects(ctx, s.store, s.log, *media)
	return nil
}
