package handlers

import (
	"github.com/gofiber/fiber/v2"

	"rentals/internal/middleware"
	"rentals/internal/models"
	"rentals/internal/services"
)

// UserHandler serves account administration.
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{
		users: users,
	}
}

// RegisterRoutes registers the user routes behind auth and policy.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler, policy middleware.Policy) {
	router.Get("/users", auth, middleware.RequireRoles(policy, models.RoleAdmin), h.HandleList)
}

// HandleList returns every account.
func (h *UserHandler) HandleList(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(users)
}
