package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantProfile holds demographic details of a tenant. The application keeps
// at most one per user.
type TenantProfile struct {
	ID                     string     `json:"id" gorm:"primaryKey;type:uuid"`
	UserID                 string     `json:"userId" gorm:"column:userId;type:uuid"`
	FullName               *string    `json:"full_name"`
	AgeRange               *string    `json:"age_range"`
	Phone                  *string    `json:"phone"`
	DateOfBirth            *Date      `json:"date_of_birth" gorm:"type:date"`
	Nationality            *string    `json:"nationality"`
	Occupation             *string    `json:"occupation"`
	Industry               *string    `json:"industry"`
	WorkStyle              *string    `json:"work_style"`
	Lifestyle              StringList `json:"lifestyle" gorm:"type:text"`
	Pets                   *string    `json:"pets"`
	Smoker                 *bool      `json:"smoker"`
	Hobbies                StringList `json:"hobbies" gorm:"type:text"`
	IdealLivingEnvironment *string    `json:"ideal_living_environment"`
	AdditionalInfo         *string    `json:"additional_info"`
	ShortlistedProperties  StringList `json:"shortlisted_properties" gorm:"type:text"`
	CreatedAt              time.Time  `json:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}

func (TenantProfile) TableName() string { return "tenant_profiles" }

func (p *TenantProfile) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// OperatorProfile holds the business details of an operator.
type OperatorProfile struct {
	ID                  string     `json:"id" gorm:"primaryKey;type:uuid"`
	UserID              string     `json:"userId" gorm:"column:userId;type:uuid"`
	FullName            *string    `json:"full_name"`
	CompanyName         *string    `json:"company_name"`
	Phone               *string    `json:"phone"`
	DateOfBirth         *Date      `json:"date_of_birth" gorm:"type:date"`
	Nationality         *string    `json:"nationality"`
	BusinessAddress     *string    `json:"business_address"`
	CompanyRegistration *string    `json:"company_registration"`
	VATNumber           *string    `json:"vat_number" gorm:"column:vat_number"`
	LicenseNumber       *string    `json:"license_number"`
	YearsExperience     *int       `json:"years_experience"`
	OperatingAreas      StringList `json:"operating_areas" gorm:"type:text"`
	PropertyTypes       StringList `json:"property_types" gorm:"type:text"`
	Services            StringList `json:"services" gorm:"type:text"`
	BusinessDescription *string    `json:"business_description"`
	Website             *string    `json:"website"`
	Linkedin            *string    `json:"linkedin"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}

func (OperatorProfile) TableName() string { return "operator_profiles" }

func (p *OperatorProfile) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
