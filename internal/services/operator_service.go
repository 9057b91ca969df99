package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"rentals/internal/models"
	"rentals/internal/repositories"
)

// SuggestPropertyInput is the request body for suggesting a listing to a tenant.
type SuggestPropertyInput struct {
	TenantID   string `json:"tenantId" validate:"required"`
	PropertyID string `json:"propertyId" validate:"required"`
	Message    string `json:"message" validate:"max=2000"`
}

// Suggestion is the record of a property suggested to a tenant.
type Suggestion struct {
	TenantID    string    `json:"tenantId"`
	PropertyID  string    `json:"propertyId"`
	OperatorID  string    `json:"operatorId"`
	Message     string    `json:"message,omitempty"`
	SuggestedAt time.Time `json:"suggestedAt"`
}

// OperatorService backs the operator dashboard.
type OperatorService struct {
	users      repositories.UserRepository
	properties repositories.PropertyRepository
	events     EventPublisher
	log        logrus.FieldLogger
}

// NewOperatorService creates a new OperatorService. events may be nil.
func NewOperatorService(users repositories.UserRepository, properties repositories.PropertyRepository, events EventPublisher, log logrus.FieldLogger) *OperatorService {
	return &OperatorService{
		users:      users,
		properties: properties,
		events:     events,
		log:        log,
	}
}

// Dashboard counts the caller's listings and the interest in them.
func (s *OperatorService) Dashboard(ctx context.Context, caller *models.Identity) (*repositories.DashboardStats, error) {
	return s.properties.Stats(ctx, caller.ID)
}

// Tenants lists every tenant on the platform with their search preferences.
// Tenants are not tied to operators, so the directory is the same for every caller.
func (s *OperatorService) Tenants(ctx context.Context) ([]models.User, error) {
	tenants, err := s.users.ListTenants(ctx)
	if err != nil {
		return nil, err
	}
	if tenants == nil {
		tenants = []models.User{}
	}
	return tenants, nil
}

// SuggestProperty checks that the tenant exists and the caller owns the
// property, then announces the suggestion.
func (s *OperatorService) SuggestProperty(ctx context.Context, caller *models.Identity, in SuggestPropertyInput) (*Suggestion, error) {
	if _, err := s.users.GetByID(ctx, in.TenantID); err != nil {
		return nil, err
	}
	property, err := s.properties.GetByID(ctx, in.PropertyID)
	if err != nil {
		return nil, err
	}
	if err := ensureOwner(property, caller); err != nil {
		return nil, err
	}

	suggestion := &Suggestion{
		TenantID:    in.TenantID,
		PropertyID:  property.ID,
		OperatorID:  caller.ID,
		Message:     in.Message,
		SuggestedAt: time.Now().UTC(),
	}
	s.log.WithFields(logrus.Fields{"tenant_id": in.TenantID, "property_id": property.ID}).Info("Property suggested")
	publish(ctx, s.events, s.log, EventPropertySuggested, suggestion)
	return suggestion, nil
}
