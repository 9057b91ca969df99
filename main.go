package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"rentals/internal/app"
	"rentals/internal/config"
	"rentals/internal/database"
	"rentals/internal/logger"
	"rentals/internal/migrations"
	"rentals/pkg/rabbitmq"
	"rentals/pkg/storage"
)

const auditQueue = "rentals.audit"

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	log := logger.New(cfg.Logging)

	// --- Database ---
	db, err := database.Open(cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	if cfg.MigrateOnStart {
		applied, err := migrations.NewRunner(db, log, migrations.All()...).Up(context.Background())
		if err != nil {
			log.WithError(err).Fatal("Failed to run migrations")
		}
		log.WithField("applied", applied).Info("Migrations complete")
	}

	deps := app.Deps{}

	// --- RabbitMQ ---
	if cfg.RabbitMQ.URL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Exchange: cfg.RabbitMQ.Exchange}, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize RabbitMQ client")
		}
		defer mqClient.Close()
		deps.Events = mqClient

		if err := mqClient.Consume(auditQueue, []string{"#"}, rabbitmq.LogEvents(log)); err != nil {
			log.WithError(err).Error("Failed to start RabbitMQ consumer")
		}
	} else {
		log.Info("RABBITMQ_URL not set, domain events are disabled")
	}

	// --- Object storage ---
	if cfg.Storage.Bucket != "" {
		store, err := storage.NewS3Store(context.Background(), storage.Config{
			Bucket:          cfg.Storage.Bucket,
			Region:          cfg.Storage.Region,
			Endpoint:        cfg.Storage.Endpoint,
			PublicBaseURL:   cfg.Storage.PublicBaseURL,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
		}, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize S3 storage")
		}
		deps.Store = store
	} else {
		log.Info("S3_BUCKET not set, media uploads are disabled")
	}

	server := app.New(cfg, db, log, deps)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.WithField("addr", cfg.AppPort).Info("Starting server")
		if err := server.Listen(cfg.AppPort); err != nil {
			log.WithError(err).Fatal("Server failed to start")
		}
	}()

	<-quit
	log.Info("Shutting down server...")
	if err := server.Shutdown(); err != nil {
		log.WithError(err).Error("Error during Fiber shutdown")
	}
	log.Info("Server gracefully stopped")
}
