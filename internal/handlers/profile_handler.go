package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"rentals/internal/middleware"
	"rentals/internal/models"
	"rentals/internal/services"
)

// ProfileHandler serves the caller's tenant profile and search preferences.
type ProfileHandler struct {
	profiles *services.ProfileService
	validate *validator.Validate
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the profile routes behind auth.
func (h *ProfileHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/tenant/profile", auth, h.HandleGetTenantProfile)
	router.Put("/tenant/profile", auth, h.HandleSaveTenantProfile)
	router.Get("/preferences", auth, h.HandleGetPreferences)
	router.Put("/preferences", auth, h.HandleSavePreferences)
}

func (h *ProfileHandler) HandleGetTenantProfile(c *fiber.Ctx) error {
	profile, err := h.profiles.GetTenantProfile(c.UserContext(), middleware.CurrentIdentity(c))
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

func (h *ProfileHandler) HandleSaveTenantProfile(c *fiber.Ctx) error {
	var req models.TenantProfile
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	profile, err := h.profiles.SaveTenantProfile(c.UserContext(), middleware.CurrentIdentity(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

func (h *ProfileHandler) HandleGetPreferences(c *fiber.Ctx) error {
	prefs, err := h.profiles.GetPreferences(c.UserContext(), middleware.CurrentIdentity(c))
	if err != nil {
		return err
	}
	return c.JSON(prefs)
}

func (h *ProfileHandler) HandleSavePreferences(c *fiber.Ctx) error {
	var req models.Preferences
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	prefs, err := h.profiles.SavePreferences(c.UserContext(), middleware.CurrentIdentity(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(prefs)
}
