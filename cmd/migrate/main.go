// Command migrate applies, reverts and inspects schema migrations.
//
//	migrate up
//	migrate down -steps 2
//	migrate status
//	migrate seed
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"rentals/internal/config"
	"rentals/internal/database"
	"rentals/internal/logger"
	"rentals/internal/migrations"
	"rentals/internal/seed"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <up|down|status|seed> [flags]\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	steps := flag.Int("steps", 1, "number of migrations to revert with down")
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	log := logger.New(cfg.Logging)

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize database")
	}
	defer database.Close(db)

	if err := run(context.Background(), flag.Arg(0), *steps, db, log); err != nil {
		log.WithError(err).Error("Command failed")
		database.Close(db)
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, steps int, db *gorm.DB, log *logrus.Logger) error {
	runner := migrations.NewRunner(db, log, migrations.All()...)

	switch command {
	case "up":
		applied, err := runner.Up(ctx)
		if err != nil {
			return err
		}
		log.WithField("applied", applied).Info("Migrations complete")
	case "down":
		if steps < 1 {
			return fmt.Errorf("-steps must be at least 1")
		}
		reverted, err := runner.Down(ctx, steps)
		if err != nil {
			return err
		}
		log.WithField("reverted", reverted).Info("Migrations reverted")
	case "status":
		status, err := runner.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range status {
			state := "pending"
			if s.Applied {
				state = "applied"
			}
			fmt.Printf("%-8s %s\n", state, s.Migration.ID())
		}
		snap, err := migrations.TakeSnapshot(db.WithContext(ctx))
		if err != nil {
			return err
		}
		fmt.Printf("\ntables: %s\n", strings.Join(snap.TableNames(), ", "))
	case "seed":
		created, err := seed.Run(ctx, db, log)
		if err != nil {
			return err
		}
		log.WithField("created", created).Info("Seeding complete")
	default:
		return fmt.Errorf("unknown command %q", command)
	}
	return nil
}
