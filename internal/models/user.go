package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserStatus is the account state of a user.
type UserStatus string

const (
	StatusActive    UserStatus = "active"
	StatusInactive  UserStatus = "inactive"
	StatusSuspended UserStatus = "suspended"
)

// User represents an account on the platform.
type User struct {
	ID            string     `json:"id" gorm:"primaryKey;type:uuid"`
	Email         string     `json:"email" gorm:"type:varchar(255);uniqueIndex"`
	Password      string     `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never serialized
	Roles         Roles      `json:"roles" gorm:"type:text"`
	Status        UserStatus `json:"status" gorm:"type:varchar(20)"`
	FullName      *string    `json:"full_name"`
	Provider      string     `json:"provider"`
	GoogleID      *string    `json:"google_id,omitempty"`
	AvatarURL     *string    `json:"avatar_url"`
	EmailVerified bool       `json:"email_verified"`
	Phone         *string    `json:"phone"`
	DateOfBirth   *Date      `json:"date_of_birth" gorm:"type:date"`
	Nationality   *string    `json:"nationality"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Preferences     *Preferences     `json:"preferences,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	TenantProfile   *TenantProfile   `json:"tenantProfile,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	OperatorProfile *OperatorProfile `json:"operatorProfile,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Shortlists      []Shortlist      `json:"shortlists,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Properties      []Property       `json:"properties,omitempty" gorm:"foreignKey:OperatorID;constraint:OnDelete:CASCADE"`
}

func (User) TableName() string { return "users" }

func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Status == "" {
		u.Status = StatusActive
	}
	if u.Provider == "" {
		u.Provider = "local"
	}
	return nil
}

// RoleList returns the user's roles, defaulting to tenant when none are stored.
func (u *User) RoleList() Roles {
	return u.Roles.OrDefault()
}

// HasRole reports whether the user holds role.
func (u *User) HasRole(role Role) bool {
	return u.RoleList().Has(role)
}
