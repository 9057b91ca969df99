package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentals/internal/handlers"
	"rentals/internal/logger"
	"rentals/internal/middleware"
)

func TestMetrics_LabelsSurviveRequestReuse(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: handlers.NewErrorHandler(logger.Discard())})
	app.Use(middleware.Metrics())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	app.Get("/labels/items", ok)
	app.Post("/labels/items", ok)
	app.Put("/labels/items/:id", ok)
	app.Patch("/labels/items/:id/flag", ok)
	app.Delete("/labels/items/:id", ok)

	requests := []struct{ method, path string }{
		{http.MethodGet, "/labels/items"},
		{http.MethodPost, "/labels/items"},
		{http.MethodPut, "/labels/items/1"},
		{http.MethodPatch, "/labels/items/2/flag"},
		{http.MethodDelete, "/labels/items/3"},
		{http.MethodGet, "/labels/missing"},
	}
	for i := 0; i < 20; i++ {
		for _, r := range requests {
			resp, err := app.Test(httptest.NewRequest(r.method, r.path, nil))
			require.NoError(t, err)
			resp.Body.Close()
		}
	}

	_, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	for _, want := range []string{
		`method="PATCH",route="/labels/items/:id/flag",status="200"`,
		`method="DELETE",route="/labels/items/:id",status="200"`,
		`method="GET",route="/labels/items",status="200"`,
	} {
		assert.True(t, strings.Contains(string(body), want), want)
	}
}
