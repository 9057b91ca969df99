// Package seed loads demo data for local development.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"rentals/internal/apperrors"
	"rentals/internal/models"
	"rentals/internal/repositories"
)

const (
	OperatorEmail    = "operator@kingscross.com"
	OperatorPassword = "operator123"
)

type listing struct {
	title, description, address string
	price                       float64
	bedrooms, bathrooms         int
	propertyType, furnishing    string
	availableFrom               models.Date
	features                    models.StringList
	btr                         bool
	photos                      []string
}

var listings = []listing{
	{
		title:         "Kings Cross Luxury Apartment",
		description:   "Modern one-bed apartment with city views, concierge, gym and a rooftop terrace.",
		address:       "37 Swinton Street, Camden, London, WC1X 9NT",
		price:         1712,
		bedrooms:      1,
		bathrooms:     1,
		propertyType:  "apartment",
		furnishing:    "furnished",
		availableFrom: models.NewDate(2024, time.February, 1),
		features:      models.StringList{"concierge_service", "gym_access", "rooftop_terrace", "city_views"},
		btr:           true,
		photos:        []string{"photo-1560448204-e02f11c3d0e2", "photo-1560448075-cbc16bb4af8e", "photo-1586023492125-27b2c045efd7"},
	},
	{
		title:         "Camden Modern Studio",
		description:   "Studio with exposed brick and good transport links into Central London.",
		address:       "22 Brecknock Road, Camden, London, NW1 0AR",
		price:         1500,
		bedrooms:      1,
		bathrooms:     1,
		propertyType:  "studio",
		furnishing:    "part-furnished",
		availableFrom: models.NewDate(2024, time.February, 15),
		features:      models.StringList{"exposed_brick", "modern_kitchen", "bike_storage"},
		photos:        []string{"photo-1522708323590-d24dbb6b0267", "photo-1502672260266-1c1ef2d93688", "photo-1493809842364-78817add7ffb"},
	},
	{
		title:         "Regent's Park Penthouse",
		description:   "Two-bed penthouse over Regent's Park with a private terrace and spa access.",
		address:       "15 Park Crescent, Regent's Park, London, W1B 1PH",
		price:         2800,
		bedrooms:      2,
		bathrooms:     2,
		propertyType:  "penthouse",
		furnishing:    "furnished",
		availableFrom: models.NewDate(2024, time.January, 20),
		features:      models.StringList{"private_terrace", "park_views", "spa_access", "underfloor_heating"},
		btr:           true,
		photos:        []string{"photo-1512917774080-9991f1c4c750", "photo-1484154218962-a197022b5858", "photo-1505691938895-1758d7feb511"},
	},
}

func ptr[T any](v T) *T { return &v }

// Run creates the demo operator with three listings of three photos each.
// It does nothing when the operator already exists and reports whether it
// created anything.
func Run(ctx context.Context, db *gorm.DB, log logrus.FieldLogger) (bool, error) {
	users := repositories.NewGORMUserRepository(db)
	properties := repositories.NewGORMPropertyRepository(db)

	if _, err := users.GetByEmail(ctx, OperatorEmail); err == nil {
		log.WithField("email", OperatorEmail).Info("Seed data already present")
		return false, nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(OperatorPassword), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	operator := &models.User{
		Email:         OperatorEmail,
		Password:      string(hash),
		Roles:         models.Roles{models.RoleOperator},
		FullName:      ptr("King Cross Apartments"),
		EmailVerified: true,
		OperatorProfile: &models.OperatorProfile{
			FullName:            ptr("King Cross Apartments"),
			CompanyName:         ptr("King Cross Property Management"),
			LicenseNumber:       ptr("KCPM-2024-001"),
			BusinessAddress:     ptr("37 Swinton Street, Camden, London, WC1X 9NT"),
			BusinessDescription: ptr("Property management for apartments in Central London."),
			YearsExperience:     ptr(15),
			Phone:               ptr("+44 20 7946 0958"),
			OperatingAreas:      models.StringList{"Camden", "Kings Cross", "Central London"},
			PropertyTypes:       models.StringList{"Apartment", "Studio", "Penthouse"},
			Services:            models.StringList{"Property Management", "Lettings", "Maintenance"},
		},
	}
	if err := users.Create(ctx, operator); err != nil {
		return false, err
	}
	log.WithField("email", operator.Email).Info("Operator user created")

	for i, l := range listings {
		property := &models.Property{
			Title:             l.title,
			Description:       l.description,
			Address:           l.address,
			Price:             l.price,
			Bedrooms:          l.bedrooms,
			Bathrooms:         l.bathrooms,
			PropertyType:      l.propertyType,
			Furnishing:        l.furnishing,
			AvailableFrom:     ptr(l.availableFrom),
			LifestyleFeatures: l.features,
			IsBTR:             l.btr,
			OperatorID:        operator.ID,
		}
		for j, photo := range l.photos {
			name := fmt.Sprintf("property%d-%d.jpg", i+1, j+1)
			property.Media = append(property.Media, models.PropertyMedia{
				URL:              fmt.Sprintf("https://images.unsplash.com/%s?w=800&h=600&fit=crop", photo),
				S3Key:            "media/" + name,
				Type:             models.MediaImage,
				MimeType:         "image/jpeg",
				OriginalFilename: name,
				FileSize:         int64(480000 + 20000*j),
				IsFeatured:       j == 0,
			})
		}
		if err := properties.Create(ctx, property); err != nil {
			return false, err
		}
		log.WithFields(logrus.Fields{"property_id": property.ID, "title": property.Title}).Info("Property created")
	}
	return true, nil
}
