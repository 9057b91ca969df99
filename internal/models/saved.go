package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favourite marks a property the user liked.
type Favourite struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID     string    `json:"userId" gorm:"column:userId;type:uuid"`
	PropertyID string    `json:"propertyId" gorm:"column:propertyId;type:uuid"`
	CreatedAt  time.Time `json:"created_at"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}

func (Favourite) TableName() string { return "favourites" }

func (f *Favourite) BeforeCreate(_ *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// Shortlist marks a property the user is seriously considering.
type Shortlist struct {
	ID         string    `json:"id" gorm:"primaryKey;type:uuid"`
	UserID     string    `json:"userId" gorm:"column:userId;type:uuid"`
	PropertyID string    `json:"propertyId" gorm:"column:propertyId;type:uuid"`
	CreatedAt  time.Time `json:"created_at"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}

func (Shortlist) TableName() string { return "shortlist" }

func (s *Shortlist) BeforeCreate(_ *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
