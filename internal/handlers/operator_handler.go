package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"rentals/internal/middleware"
	"rentals/internal/models"
	"rentals/internal/services"
)

// OperatorHandler handles the operator dashboard routes.
type OperatorHandler struct {
	operators  *services.OperatorService
	properties *services.PropertyService
	profiles   *services.ProfileService
	validate   *validator.Validate
}

// NewOperatorHandler creates a new OperatorHandler.
func NewOperatorHandler(operators *services.OperatorService, properties *services.PropertyService, profiles *services.ProfileService) *OperatorHandler {
	return &OperatorHandler{
		operators:  operators,
		properties: properties,
		profiles:   profiles,
		validate:   newValidator(),
	}
}

// RegisterRoutes registers the operator routes behind auth and policy.
func (h *OperatorHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler, policy middleware.Policy) {
	guard := middleware.RequireRoles(policy, models.RoleOperator, models.RoleAdmin)
	operatorRoutes := router.Group("/operator")
	operatorRoutes.Get("/dashboard", auth, guard, h.HandleDashboard)
	operatorRoutes.Get("/properties", auth, guard, h.HandleProperties)
	operatorRoutes.Get("/tenants", auth, guard, h.HandleTenants)
	operatorRoutes.Post("/suggest-property", auth, guard, h.HandleSuggestProperty)
	operatorRoutes.Get("/profile", auth, guard, h.HandleGetProfile)
	operatorRoutes.Put("/profile", auth, guard, h.HandleSaveProfile)
}

// HandleDashboard returns counts scoped to the caller.
func (h *OperatorHandler) HandleDashboard(c *fiber.Ctx) error {
	stats, err := h.operators.Dashboard(c.UserContext(), middleware.CurrentIdentity(c))
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// HandleProperties returns the caller's listings.
func (h *OperatorHandler) HandleProperties(c *fiber.Ctx) error {
	page, err := h.properties.ListByOperator(c.UserContext(), middleware.CurrentIdentity(c).ID,
		c.QueryInt("limit"), c.QueryInt("offset"))
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// HandleTenants returns tenants with their preferences.
func (h *OperatorHandler) HandleTenants(c *fiber.Ctx) error {
	tenants, err := h.operators.Tenants(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(tenants)
}

// HandleSuggestProperty suggests one of the caller's listings to a tenant.
func (h *OperatorHandler) HandleSuggestProperty(c *fiber.Ctx) error {
	var req services.SuggestPropertyInput
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	suggestion, err := h.operators.SuggestProperty(c.UserContext(), middleware.CurrentIdentity(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Property suggested successfully",
		"suggestion": suggestion,
	})
}

// HandleGetProfile returns the caller's operator profile.
func (h *OperatorHandler) HandleGetProfile(c *fiber.Ctx) error {
	profile, err := h.profiles.GetOperatorProfile(c.UserContext(), middleware.CurrentIdentity(c))
	if err != nil {
		return err
	}
	return c.JSON(profile)
}

// HandleSaveProfile creates or replaces the caller's operator profile.
func (h *OperatorHandler) HandleSaveProfile(c *fiber.Ctx) error {
	var req models.OperatorProfile
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	profile, err := h.profiles.SaveOperatorProfile(c.UserContext(), middleware.CurrentIdentity(c), &req)
	if err != nil {
		return err
	}
	return c.JSON(profile)
}
