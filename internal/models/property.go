package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Property is a rental listing owned by an operator.
type Property struct {
	ID                string     `json:"id" gorm:"primaryKey;type:uuid"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Address           string     `json:"address"`
	Price             float64    `json:"price" gorm:"type:decimal(10,2)"`
	Bedrooms          int        `json:"bedrooms"`
	Bathrooms         int        `json:"bathrooms"`
	PropertyType      string     `json:"property_type"`
	Furnishing        string     `json:"furnishing"`
	LifestyleFeatures StringList `json:"lifestyle_features" gorm:"type:text"`
	AvailableFrom     *Date      `json:"available_from" gorm:"type:date"`
	Images            StringList `json:"images" gorm:"type:text"`
	IsBTR             bool       `json:"is_btr" gorm:"column:is_btr"`
	Lat               *float64   `json:"lat" gorm:"type:decimal(10,7)"`
	Lng               *float64   `json:"lng" gorm:"type:decimal(10,7)"`
	OperatorID        string     `json:"operator_id" gorm:"type:uuid"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Operator *User          `json:"operator,omitempty" gorm:"foreignKey:OperatorID"`
	Media    []PropertyMedia `json:"media,omitempty" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

func (Property) TableName() string { return "properties" }

func (p *Property) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// FeaturedMedia returns the featured media entry, or nil when none is marked.
func (p *Property) FeaturedMedia() *PropertyMedia {
	for i := range p.Media {
		if p.Media[i].IsFeatured {
			return &p.Media[i]
		}
	}
	return nil
}

// MediaType distinguishes images from videos.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// PropertyMedia is an uploaded image or video attached to a property.
type PropertyMedia struct {
	ID               string    `json:"id" gorm:"primaryKey;type:uuid"`
	PropertyID       string    `json:"property_id" gorm:"type:uuid"`
	URL              string    `json:"url" gorm:"column:url"`
	S3Key            string    `json:"s3_key" gorm:"column:s3_key"`
	Type             MediaType `json:"type"`
	MimeType         string    `json:"mime_type"`
	OriginalFilename string    `json:"original_filename"`
	FileSize         int64     `json:"file_size"`
	OrderIndex       int       `json:"order_index"`
	IsFeatured       bool      `json:"is_featured"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (PropertyMedia) TableName() string { return "property_media" }

func (m *PropertyMedia) BeforeCreate(_ *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Type == "" {
		m.Type = MediaImage
	}
	return nil
}
