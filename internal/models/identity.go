package models

// Identity is the authenticated caller attached to a request.
type Identity struct {
	ID              string           `json:"id"`
	Email           string           `json:"email"`
	Roles           Roles            `json:"roles"`
	FullName        *string          `json:"full_name,omitempty"`
	TenantProfile   *TenantProfile   `json:"tenantProfile,omitempty"`
	OperatorProfile *OperatorProfile `json:"operatorProfile,omitempty"`
}

// NewIdentity builds an Identity from a loaded user. Profiles are carried only
// if they were preloaded.
func NewIdentity(u *User) *Identity {
	return &Identity{
		ID:              u.ID,
		Email:           u.Email,
		Roles:           u.RoleList(),
		FullName:        u.FullName,
		TenantProfile:   u.TenantProfile,
		OperatorProfile: u.OperatorProfile,
	}
}

// HasRole reports whether the caller holds role.
func (i *Identity) HasRole(role Role) bool {
	return i.Roles.OrDefault().Has(role)
}
