package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"rentals/internal/apperrors"
	"rentals/internal/models"
)

const identityKey = "identity"

// IdentityResolver turns a bearer token into the caller it names.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, token string) (*models.Identity, error)
}

// AuthRequired is a Fiber middleware to check for a valid JWT token. Only a
// valid token naming an existing user attaches an identity to the request.
func AuthRequired(resolver IdentityResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperrors.Unauthorized("Authorization header is required")
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") && strings.TrimSpace(parts[1]) != "") {
			return apperrors.Unauthorized("Authorization header format must be 'Bearer <token>'")
		}

		identity, err := resolver.ResolveIdentity(c.UserContext(), strings.TrimSpace(parts[1]))
		if err != nil {
			return err
		}

		// Store the caller in Fiber context for subsequent handlers
		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// CurrentIdentity returns the caller attached by AuthRequired, or nil on
// public routes.
func CurrentIdentity(c *fiber.Ctx) *models.Identity {
	identity, _ := c.Locals(identityKey).(*models.Identity)
	return identity
}

// Policy decides whether identity may use a route that asks for required roles.
type Policy func(identity *models.Identity, required []models.Role) bool

// AllowAll admits every authenticated caller regardless of role.
func AllowAll(*models.Identity, []models.Role) bool {
	return true
}

// AnyRole admits callers holding at least one of the required roles.
func AnyRole(identity *models.Identity, required []models.Role) bool {
	return len(required) == 0 || identity.Roles.OrDefault().HasAny(required...)
}

// RequireRoles guards a route with policy. It must run after AuthRequired.
func RequireRoles(policy Policy, roles ...models.Role) fiber.Handler {
	if policy == nil {
		policy = AllowAll
	}
	return func(c *fiber.Ctx) error {
		identity := CurrentIdentity(c)
		if identity == nil {
			return apperrors.Unauthorized("authentication required")
		}
		if !policy(identity, roles) {
			return apperrors.Forbidden("this action requires one of the roles: %s", models.NewRoles(roles...).String())
		}
		return c.Next()
	}
}
