package models_test

import (
	"encoding/json"
	"testing"

	"rentals/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoles_Normalizes(t *testing.T) {
	roles := models.ParseRoles(" Tenant, operator ,,tenant,ADMIN ")
	assert.Equal(t, models.Roles{models.RoleTenant, models.RoleOperator, models.RoleAdmin}, roles)
	assert.Equal(t, "tenant,operator,admin", roles.String())
}

func TestRoles_RoundTrip(t *testing.T) {
	cases := []models.Roles{
		{models.RoleTenant},
		{models.RoleOperator, models.RoleTenant},
		{models.RoleAdmin, models.RoleOperator, models.RoleTenant},
	}
	for _, roles := range cases {
		assert.Equal(t, roles, models.ParseRoles(roles.String()))
	}
}

func TestRoles_EmptyDefaultsToTenant(t *testing.T) {
	assert.Nil(t, models.ParseRoles(""))
	assert.Nil(t, models.ParseRoles(" , "))

	var u models.User
	assert.Equal(t, models.Roles{models.RoleTenant}, u.RoleList())
	assert.True(t, u.HasRole(models.RoleTenant))
	assert.False(t, u.HasRole(models.RoleOperator))
}

func TestRoles_SQLBoundary(t *testing.T) {
	v, err := models.Roles(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = models.Roles{models.RoleOperator, models.RoleTenant}.Value()
	require.NoError(t, err)
	assert.Equal(t, "operator,tenant", v)

	var r models.Roles
	require.NoError(t, r.Scan([]byte("operator, tenant")))
	assert.True(t, r.Has(models.RoleOperator))
	assert.True(t, r.HasAny(models.RoleAdmin, models.RoleTenant))

	require.NoError(t, r.Scan(nil))
	assert.Empty(t, r)

	assert.Error(t, r.Scan(42))
}

func TestRoles_JSON(t *testing.T) {
	data, err := json.Marshal(models.Roles{models.RoleTenant, models.RoleOperator})
	require.NoError(t, err)
	assert.JSONEq(t, `"tenant,operator"`, string(data))

	var fromString, fromArray models.Roles
	require.NoError(t, json.Unmarshal([]byte(`"operator,tenant"`), &fromString))
	require.NoError(t, json.Unmarshal([]byte(`["operator","tenant","operator"]`), &fromArray))
	assert.Equal(t, fromString, fromArray)

	assert.Error(t, json.Unmarshal([]byte(`42`), &fromArray))
}

func TestStringList_Boundary(t *testing.T) {
	var l models.StringList
	require.NoError(t, l.Scan("gym,concierge"))
	assert.Equal(t, models.StringList{"gym", "concierge"}, l)

	require.NoError(t, l.Scan(""))
	assert.Empty(t, l)

	v, err := models.StringList{"a", "b"}.Value()
	require.NoError(t, err)
	assert.Equal(t, "a,b", v)

	v, err = models.StringList(nil).Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestUser_BeforeCreateDefaults(t *testing.T) {
	u := &models.User{Email: "a@example.com"}
	require.NoError(t, u.BeforeCreate(nil))
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, models.StatusActive, u.Status)
	assert.Equal(t, "local", u.Provider)

	data, err := json.Marshal(&models.User{Email: "a@example.com", Password: "hash"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hash")
}

func TestProperty_FeaturedMedia(t *testing.T) {
	p := models.Property{Media: []models.PropertyMedia{{ID: "1"}, {ID: "2", IsFeatured: true}}}
	require.NotNil(t, p.FeaturedMedia())
	assert.Equal(t, "2", p.FeaturedMedia().ID)
	assert.Nil(t, (&models.Property{}).FeaturedMedia())
}
