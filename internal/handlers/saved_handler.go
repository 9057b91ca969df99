package handlers

import (
	"github.com/gofiber/fiber/v2"

	"rentals/internal/middleware"
	"rentals/internal/services"
)

// SavedHandler serves one saved-property list, mounted at prefix.
type SavedHandler struct {
	prefix  string
	service *services.SavedService
}

// NewSavedHandler creates a SavedHandler for the list at prefix, e.g.
// "/favourites" or "/shortlist".
func NewSavedHandler(prefix string, service *services.SavedService) *SavedHandler {
	return &SavedHandler{
		prefix:  prefix,
		service: service,
	}
}

// RegisterRoutes registers the list routes behind auth.
func (h *SavedHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	savedRoutes := router.Group(h.prefix)
	savedRoutes.Get("/", auth, h.HandleList)
	savedRoutes.Post("/:propertyId", auth, h.HandleAdd)
	savedRoutes.Delete("/:propertyId", auth, h.HandleRemove)
}

func (h *SavedHandler) HandleList(c *fiber.Ctx) error {
	properties, err := h.service.List(c.UserContext(), middleware.CurrentIdentity(c))
	if err != nil {
		return err
	}
	return c.JSON(properties)
}

func (h *SavedHandler) HandleAdd(c *fiber.Ctx) error {
	if err := h.service.Add(c.UserContext(), middleware.CurrentIdentity(c), c.Params("propertyId")); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Property saved",
		"propertyId": c.Params("propertyId"),
	})
}

func (h *SavedHandler) HandleRemove(c *fiber.Ctx) error {
	if err := h.service.Remove(c.UserContext(), middleware.CurrentIdentity(c), c.Params("propertyId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
