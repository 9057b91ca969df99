package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Role is a coarse access tag carried by a user.
type Role string

const (
	RoleTenant   Role = "tenant"
	RoleOperator Role = "operator"
	RoleAdmin    Role = "admin"
)

// DefaultRole is assumed whenever a user has no stored roles.
const DefaultRole = RoleTenant

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleTenant, RoleOperator, RoleAdmin:
		return true
	}
	return false
}

// Roles is an ordered set of roles. It is persisted and sent over the wire as
// a comma-joined string ("tenant,operator").
type Roles []Role

// NewRoles normalizes the given roles: tokens are trimmed and lowercased,
// empty tokens and duplicates are dropped, first occurrence wins.
func NewRoles(roles ...Role) Roles {
	out := make(Roles, 0, len(roles))
	seen := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		r = Role(strings.ToLower(strings.TrimSpace(string(r))))
		if r == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ParseRoles splits a comma-joined role string.
func ParseRoles(s string) Roles {
	parts := strings.Split(s, ",")
	roles := make([]Role, len(parts))
	for i, p := range parts {
		roles[i] = Role(p)
	}
	return NewRoles(roles...)
}

func (r Roles) String() string {
	parts := make([]string, len(r))
	for i, role := range r {
		parts[i] = string(role)
	}
	return strings.Join(parts, ",")
}

// Has reports membership of role.
func (r Roles) Has(role Role) bool {
	for _, have := range r {
		if have == role {
			return true
		}
	}
	return false
}

// HasAny reports whether at least one of required is present.
func (r Roles) HasAny(required ...Role) bool {
	for _, want := range required {
		if r.Has(want) {
			return true
		}
	}
	return false
}

// OrDefault returns r, or the default tenant role when r is empty.
func (r Roles) OrDefault() Roles {
	if len(r) == 0 {
		return Roles{DefaultRole}
	}
	return r
}

// Scan implements sql.Scanner. NULL scans to an empty set.
func (r *Roles) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*r = nil
	case string:
		*r = ParseRoles(v)
	case []byte:
		*r = ParseRoles(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Roles", value)
	}
	return nil
}

// Value implements driver.Valuer. An empty set is stored as NULL.
func (r Roles) Value() (driver.Value, error) {
	if len(r) == 0 {
		return nil, nil
	}
	return r.String(), nil
}

func (r Roles) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts either the comma-joined string or a JSON array.
func (r *Roles) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = ParseRoles(s)
		return nil
	}
	var list []Role
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("roles must be a string or an array of strings: %w", err)
	}
	*r = NewRoles(list...)
	return nil
}
