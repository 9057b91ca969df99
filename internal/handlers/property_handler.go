package handlers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"rentals/internal/apperrors"
	"rentals/internal/middleware"
	"rentals/internal/repositories"
	"rentals/internal/services"
)

// PropertyHandler handles HTTP requests for listings and their media.
type PropertyHandler struct {
	properties *services.PropertyService
	media      *services.MediaService
	validate   *validator.Validate
}

// NewPropertyHandler creates a new PropertyHandler.
func NewPropertyHandler(properties *services.PropertyService, media *services.MediaService) *PropertyHandler {
	return &PropertyHandler{
		properties: properties,
		media:      media,
		validate:   newValidator(),
	}
}

// RegisterRoutes registers the property routes. Only the public listing is
// reachable without auth.
func (h *PropertyHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	propertyRoutes := router.Group("/properties")
	propertyRoutes.Get("/public", h.HandleList)
	propertyRoutes.Get("/", auth, h.HandleList)
	propertyRoutes.Post("/", auth, h.HandleCreate)
	propertyRoutes.Get("/:id", auth, h.HandleGet)
	propertyRoutes.Put("/:id", auth, h.HandleUpdate)
	propertyRoutes.Delete("/:id", auth, h.HandleDelete)

	propertyRoutes.Post("/:id/media", auth, h.HandleUploadMedia)
	propertyRoutes.Put("/:id/media/order", auth, h.HandleReorderMedia)
	propertyRoutes.Patch("/:id/media/:mediaId/featured", auth, h.HandleFeatureMedia)
	propertyRoutes.Delete("/:id/media/:mediaId", auth, h.HandleDeleteMedia)
}

func queryFloat(c *fiber.Ctx, key string, fields map[string]string) *float64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		fields[key] = "must be a number"
		return nil
	}
	return &v
}

func queryInt(c *fiber.Ctx, key string, fields map[string]string) *int {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		fields[key] = "must be an integer"
		return nil
	}
	return &v
}

// filterFromQuery reads min_price, max_price, bedrooms, property_type,
// furnishing, limit and offset.
func filterFromQuery(c *fiber.Ctx) (repositories.PropertyFilter, error) {
	fields := map[string]string{}
	filter := repositories.PropertyFilter{
		MinPrice:     queryFloat(c, "min_price", fields),
		MaxPrice:     queryFloat(c, "max_price", fields),
		MinBedrooms:  queryInt(c, "bedrooms", fields),
		PropertyType: c.Query("property_type"),
		Furnishing:   c.Query("furnishing"),
	}
	if limit := queryInt(c, "limit", fields); limit != nil {
		filter.Limit = *limit
	}
	if offset := queryInt(c, "offset", fields); offset != nil {
		filter.Offset = *offset
	}
	if len(fields) > 0 {
		return filter, apperrors.Validation("Invalid query parameters", fields)
	}
	return filter, nil
}

// HandleList returns one page of listings.
func (h *PropertyHandler) HandleList(c *fiber.Ctx) error {
	filter, err := filterFromQuery(c)
	if err != nil {
		return err
	}
	page, err := h.properties.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(page)
}

// HandleGet returns a single listing with its media.
func (h *PropertyHandler) HandleGet(c *fiber.Ctx) error {
	property, err := h.properties.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(property)
}

// HandleCreate creates a listing owned by the caller.
func (h *PropertyHandler) HandleCreate(c *fiber.Ctx) error {
	var req services.PropertyInput
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	property, err := h.properties.Create(c.UserContext(), middleware.CurrentIdentity(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(property)
}

// HandleUpdate replaces the fields of a listing owned by the caller.
func (h *PropertyHandler) HandleUpdate(c *fiber.Ctx) error {
	var req services.PropertyInput
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	property, err := h.properties.Update(c.UserContext(), middleware.CurrentIdentity(c), c.Params("id"), req)
	if err != nil {
		return err
	}
	return c.JSON(property)
}

// HandleDelete deletes a listing owned by the caller.
func (h *PropertyHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.properties.Delete(c.UserContext(), middleware.CurrentIdentity(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleUploadMedia stores a multipart "file" and appends it to the gallery.
func (h *PropertyHandler) HandleUploadMedia(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.Validation("Validation failed", map[string]string{"file": "a multipart file field named 'file' is required"})
	}
	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	featured, _ := strconv.ParseBool(c.FormValue("is_featured"))
	media, err := h.media.Upload(c.UserContext(), middleware.CurrentIdentity(c), c.Params("id"), services.Upload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(fiber.HeaderContentType),
		Size:        fileHeader.Size,
		Body:        file,
		Featured:    featured,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(media)
}

// ReorderMediaRequest lists every media id of a property in display order.
type ReorderMediaRequest struct {
	MediaIDs []string `json:"media_ids" validate:"required,min=1,dive,required"`
}

// HandleReorderMedia sets the display order of a listing's media.
func (h *PropertyHandler) HandleReorderMedia(c *fiber.Ctx) error {
	var req ReorderMediaRequest
	if err := bind(c, h.validate, &req); err != nil {
		return err
	}
	media, err := h.media.Reorder(c.UserContext(), middleware.CurrentIdentity(c), c.Params("id"), req.MediaIDs)
	if err != nil {
		return err
	}
	return c.JSON(media)
}

// HandleFeatureMedia makes one media the listing's featured media.
func (h *PropertyHandler) HandleFeatureMedia(c *fiber.Ctx) error {
	media, err := h.media.Feature(c.UserContext(), middleware.CurrentIdentity(c), c.Params("id"), c.Params("mediaId"))
	if err != nil {
		return err
	}
	return c.JSON(media)
}

// HandleDeleteMedia removes one media entry and its stored file.
func (h *PropertyHandler) HandleDeleteMedia(c *fiber.Ctx) error {
	err := h.media.Delete(c.UserContext(), middleware.CurrentIdentity(c), c.Params("id"), c.Params("mediaId"))
	if err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
