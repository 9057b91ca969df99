package repositories

import (
	"context"

	"rentals/internal/models"
)

// PropertyFilter narrows a property listing. Zero values mean "no filter".
type PropertyFilter struct {
	OperatorID   string
	MinPrice     *float64
	MaxPrice     *float64
	MinBedrooms  *int
	PropertyType string
	Furnishing   string
	Limit        int
	Offset       int
}

// DashboardStats are the counts shown on an operator's dashboard.
type DashboardStats struct {
	Properties int64 `json:"properties"`
	Media      int64 `json:"media"`
	Favourites int64 `json:"favourites"`
	Shortlists int64 `json:"shortlists"`
	Tenants    int64 `json:"tenants"` // platform-wide
}

// PropertyRepository defines the interface for property data access.
type PropertyRepository interface {
	// List returns one page of properties matching filter, newest first,
	// along with the total number of matches.
	List(ctx context.Context, filter PropertyFilter) ([]models.Property, int64, error)
	// GetByID loads a property with its media ordered by order_index.
	GetByID(ctx context.Context, id string) (*models.Property, error)
	// Create stores the property and any media set on it in one transaction.
	Create(ctx context.Context, property *models.Property) error
	Update(ctx context.Context, property *models.Property) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, operatorID string) (*DashboardStats, error)
}

// MediaRepository defines the interface for property media data access.
type MediaRepository interface {
	ListByProperty(ctx context.Context, propertyID string) ([]models.PropertyMedia, error)
	GetByID(ctx context.Context, propertyID, mediaID string) (*models.PropertyMedia, error)
	// Append stores media after the property's last entry. The first media of a
	// property becomes featured.
	Append(ctx context.Context, media *models.PropertyMedia) error
	// Reorder assigns order_index by position in mediaIDs, which must name
	// every media of the property exactly once.
	Reorder(ctx context.Context, propertyID string, mediaIDs []string) error
	// SetFeatured makes mediaID the only featured media of the property.
	SetFeatured(ctx context.Context, propertyID, mediaID string) error
	Delete(ctx context.Context, propertyID, mediaID string) error
}
