package services

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"rentals/internal/metrics"
)

// Routing keys of the domain events published to the broker.
const (
	EventUserRegistered    = "user.registered"
	EventPropertyCreated   = "property.created"
	EventPropertySuggested = "property.suggested"
)

// EventPublisher hands domain events to a message broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// MediaStore keeps the binary content of property media.
type MediaStore interface {
	// Put stores body under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	Delete(ctx context.Context, key string) error
}

// publish sends an event if a publisher is configured. Broker failures are
// logged and never fail the request that produced the event.
func publish(ctx context.Context, events EventPublisher, log logrus.FieldLogger, routingKey string, payload interface{}) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, routingKey, payload); err != nil {
		metrics.EventsPublishedTotal.WithLabelValues(routingKey, "error").Inc()
		log.WithError(err).WithField("event", routingKey).Error("Failed to publish event")
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues(routingKey, "ok").Inc()
}
