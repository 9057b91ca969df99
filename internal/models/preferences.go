package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Preferences holds a tenant's search criteria and the lifestyle fields that
// used to live on the user row. One row per user.
type Preferences struct {
	ID     string `json:"id" gorm:"primaryKey;type:uuid"`
	UserID string `json:"user_id" gorm:"column:user_id;type:uuid"`

	PrimaryPostcode   *string    `json:"primary_postcode"`
	SecondaryLocation *string    `json:"secondary_location"`
	CommuteLocation   *string    `json:"commute_location"`
	CommuteTimeWalk   *int       `json:"commute_time_walk"`
	CommuteTimeCycle  *int       `json:"commute_time_cycle"`
	CommuteTimeTube   *int       `json:"commute_time_tube"`
	MoveInDate        *Date      `json:"move_in_date" gorm:"type:date"`
	MoveOutDate       *Date      `json:"move_out_date" gorm:"type:date"`

	MinPrice     *int `json:"min_price"`
	MaxPrice     *int `json:"max_price"`
	MinBedrooms  *int `json:"min_bedrooms"`
	MaxBedrooms  *int `json:"max_bedrooms"`
	MinBathrooms *int `json:"min_bathrooms"`
	MaxBathrooms *int `json:"max_bathrooms"`

	Furnishing          *string    `json:"furnishing"`
	Location            StringList `json:"location" gorm:"type:text"`
	BuildingStyle       StringList `json:"building_style" gorm:"type:text"`
	DesignerFurniture   *bool      `json:"designer_furniture"`
	HouseShares         *string    `json:"house_shares"`
	DatePropertyAdded   *string    `json:"date_property_added"`
	LifestyleFeatures   StringList `json:"lifestyle_features" gorm:"type:text"`
	SocialFeatures      StringList `json:"social_features" gorm:"type:text"`
	WorkFeatures        StringList `json:"work_features" gorm:"type:text"`
	ConvenienceFeatures StringList `json:"convenience_features" gorm:"type:text"`
	PetFriendlyFeatures StringList `json:"pet_friendly_features" gorm:"type:text"`
	LuxuryFeatures      StringList `json:"luxury_features" gorm:"type:text"`
	LetDuration         *string    `json:"let_duration"`
	PropertyType        StringList `json:"property_type" gorm:"type:text"`

	Hobbies                StringList `json:"hobbies" gorm:"type:text"`
	IdealLivingEnvironment *string    `json:"ideal_living_environment"`
	Pets                   *string    `json:"pets"`
	Smoker                 *bool      `json:"smoker"`
	AdditionalInfo         *string    `json:"additional_info"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}

func (Preferences) TableName() string { return "preferences" }

func (p *Preferences) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
