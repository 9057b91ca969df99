package app

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"rentals/internal/config"
	"rentals/internal/handlers"
	"rentals/internal/middleware"
	"rentals/internal/repositories"
	"rentals/internal/services"
)

// multipart framing on top of the largest accepted upload
const bodyOverhead = 1 << 20

// Deps are the optional collaborators of the app. A nil Events drops domain
// events; a nil Store disables media uploads.
type Deps struct {
	Events services.EventPublisher
	Store  services.MediaStore
}

// New builds the Fiber app with every route registered.
func New(cfg *config.Config, db *gorm.DB, log logrus.FieldLogger, deps Deps) *fiber.App {
	bodyLimit := fiber.DefaultBodyLimit
	if limit := int(cfg.Storage.MaxUploadBytes) + bodyOverhead; limit > bodyLimit {
		bodyLimit = limit
	}
	app := fiber.New(fiber.Config{
		AppName:               "rentals",
		ErrorHandler:          handlers.NewErrorHandler(log),
		BodyLimit:             bodyLimit,
		DisableStartupMessage: cfg.IsProduction(),
	})

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(middleware.Metrics())

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	propertyRepo := repositories.NewGORMPropertyRepository(db)
	mediaRepo := repositories.NewGORMMediaRepository(db)
	profileRepo := repositories.NewGORMProfileRepository(db)
	favouriteRepo := repositories.NewGORMFavouriteRepository(db)
	shortlistRepo := repositories.NewGORMShortlistRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, cfg.JWT, deps.Events, log)
	userService := services.NewUserService(userRepo, log)
	propertyService := services.NewPropertyService(propertyRepo, deps.Store, deps.Events, log)
	mediaService := services.NewMediaService(propertyService, mediaRepo, deps.Store, cfg.Storage.MaxUploadBytes, log)
	operatorService := services.NewOperatorService(userRepo, propertyRepo, deps.Events, log)
	profileService := services.NewProfileService(profileRepo)

	// --- Routes ---
	policy := middleware.AllowAll
	if cfg.AuthStrictRoles {
		policy = middleware.AnyRole
	}
	auth := middleware.AuthRequired(authService)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	api.Get("/health", handlers.HandleHealth)

	handlers.NewAuthHandler(authService, userService).RegisterRoutes(api, auth)
	handlers.NewPropertyHandler(propertyService, mediaService).RegisterRoutes(api, auth)
	handlers.NewOperatorHandler(operatorService, propertyService, profileService).RegisterRoutes(api, auth, policy)
	handlers.NewProfileHandler(profileService).RegisterRoutes(api, auth)
	handlers.NewSavedHandler("/favourites", services.NewSavedService(favouriteRepo, propertyRepo)).RegisterRoutes(api, auth)
	handlers.NewSavedHandler("/shortlist", services.NewSavedService(shortlistRepo, propertyRepo)).RegisterRoutes(api, auth)
	handlers.NewUserHandler(userService).RegisterRoutes(api, auth, policy)

	return app
}
