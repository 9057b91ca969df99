package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentals/internal/apperrors"
	"rentals/internal/handlers"
	"rentals/internal/logger"
	"rentals/internal/middleware"
	"rentals/internal/models"
)

type stubResolver map[string]*models.Identity

func (s stubResolver) ResolveIdentity(_ context.Context, token string) (*models.Identity, error) {
	if identity, ok := s[token]; ok {
		return identity, nil
	}
	return nil, apperrors.Unauthorized("invalid token")
}

func newApp(policy middleware.Policy) *fiber.App {
	resolver := stubResolver{
		"tenant-token":   {ID: "u-1", Roles: models.Roles{models.RoleTenant}},
		"operator-token": {ID: "u-2", Roles: models.Roles{models.RoleOperator}},
		"legacy-token":   {ID: "u-3"},
	}
	app := fiber.New(fiber.Config{ErrorHandler: handlers.NewErrorHandler(logger.Discard())})
	app.Use(middleware.RequestLogger(logger.Discard()), middleware.Metrics())
	auth := middleware.AuthRequired(resolver)
	app.Get("/me", auth, func(c *fiber.Ctx) error {
		return c.SendString(middleware.CurrentIdentity(c).ID)
	})
	app.Get("/ops", auth, middleware.RequireRoles(policy, models.RoleOperator, models.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/public", func(c *fiber.Ctx) error {
		if middleware.CurrentIdentity(c) != nil {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func request(t *testing.T, app *fiber.App, path, header string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuthRequired(t *testing.T) {
	app := newApp(middleware.AllowAll)

	assert.Equal(t, http.StatusUnauthorized, request(t, app, "/me", ""))
	assert.Equal(t, http.StatusUnauthorized, request(t, app, "/me", "tenant-token"))
	assert.Equal(t, http.StatusUnauthorized, request(t, app, "/me", "Bearer "))
	assert.Equal(t, http.StatusUnauthorized, request(t, app, "/me", "Bearer bogus"))
	assert.Equal(t, http.StatusOK, request(t, app, "/me", "Bearer tenant-token"))
	assert.Equal(t, http.StatusOK, request(t, app, "/me", "bearer tenant-token"))
	assert.Equal(t, http.StatusOK, request(t, app, "/public", ""))
}

func TestRequireRoles(t *testing.T) {
	tests := []struct {
		name   string
		policy middleware.Policy
		header string
		want   int
	}{
		{"AllowAllTenant", middleware.AllowAll, "Bearer tenant-token", http.StatusOK},
		{"NilPolicyAllows", nil, "Bearer tenant-token", http.StatusOK},
		{"AnyRoleTenant", middleware.AnyRole, "Bearer tenant-token", http.StatusForbidden},
		{"AnyRoleOperator", middleware.AnyRole, "Bearer operator-token", http.StatusOK},
		{"AnyRoleUnsetRolesAreTenant", middleware.AnyRole, "Bearer legacy-token", http.StatusForbidden},
		{"NoToken", middleware.AnyRole, "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, request(t, newApp(tt.policy), "/ops", tt.header))
		})
	}
}
