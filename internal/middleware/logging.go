package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"

	"rentals/internal/metrics"
)

// settle lets the app's error handler write the response for err, so that
// middleware observing the status afterwards sees the final one.
func settle(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}
	if herr := c.App().ErrorHandler(c, err); herr != nil {
		_ = c.SendStatus(fiber.StatusInternalServerError)
	}
	return nil
}

// RequestLogger logs HTTP requests
func RequestLogger(logger logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime := time.Now()
		err := settle(c, c.Next())
		latency := time.Since(startTime)

		status := c.Response().StatusCode()
		fields := logrus.Fields{
			"status":     status,
			"method":     c.Method(),
			"path":       c.Path(),
			"ip":         c.IP(),
			"latency":    latency.String(),
			"user-agent": c.Get(fiber.HeaderUserAgent),
		}
		if id, ok := c.Locals("requestid").(string); ok {
			fields["request_id"] = id
		}
		if identity := CurrentIdentity(c); identity != nil {
			fields["user_id"] = identity.ID
		}
		entry := logger.WithFields(fields)

		if status >= 500 {
			entry.Error("Server error")
		} else if status >= 400 {
			entry.Warn("Client error")
		} else {
			entry.Info("Request completed")
		}
		return err
	}
}

// Metrics records request counts and latencies per route.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime := time.Now()
		err := settle(c, c.Next())

		// Label values outlive the request, so they must not alias fasthttp's buffers.
		method := utils.CopyString(c.Method())
		route := utils.CopyString(c.Route().Path)
		status := strconv.Itoa(c.Response().StatusCode())
		metrics.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(time.Since(startTime).Seconds())
		return err
	}
}
