package migrations

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migration is one versioned schema change. Up must be safe to run against a
// database that already has some or all of its changes.
type Migration struct {
	Timestamp int64
	Name      string
	Up        func(tx *gorm.DB) error
	Down      func(tx *gorm.DB) error
}

// ID is the name recorded in the ledger, e.g. "AddUrlToPropertyMedia1752067887898".
func (m Migration) ID() string {
	return fmt.Sprintf("%s%d", m.Name, m.Timestamp)
}

// ledgerEntry is a row of the migrations table.
type ledgerEntry struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Timestamp int64  `gorm:"not null"`
	Name      string `gorm:"type:varchar(255);not null"`
}

func (ledgerEntry) TableName() string { return "migrations" }

// Status reports whether a known migration has been applied.
type Status struct {
	Migration Migration
	Applied   bool
	LedgerID  uint
}

// Runner applies and reverts migrations, recording each in the ledger.
type Runner struct {
	db         *gorm.DB
	log        logrus.FieldLogger
	migrations []Migration
}

// NewRunner returns a runner over the given migrations, ordered by timestamp
// then name.
func NewRunner(db *gorm.DB, log logrus.FieldLogger, migrations ...Migration) *Runner {
	sorted := append([]Migration(nil), migrations...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Timestamp != sorted[j].Timestamp {
			return sorted[i].Timestamp < sorted[j].Timestamp
		}
		return sorted[i].Name < sorted[j].Name
	})
	return &Runner{db: db, log: log, migrations: sorted}
}

func (r *Runner) ensureLedger(db *gorm.DB) error {
	if err := db.AutoMigrate(&ledgerEntry{}); err != nil {
		return fmt.Errorf("prepare migrations table: %w", err)
	}
	return nil
}

func (r *Runner) applied(db *gorm.DB) (map[string]ledgerEntry, error) {
	var entries []ledgerEntry
	if err := db.Order("id").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("read migrations table: %w", err)
	}
	out := make(map[string]ledgerEntry, len(entries))
	for _, e := range entries {
		out[e.Name] = e
	}
	return out, nil
}

// Up applies every pending migration in order and returns how many ran. The
// first failure stops the run; migrations applied before it stay recorded.
func (r *Runner) Up(ctx context.Context) (int, error) {
	db := r.db.WithContext(ctx)
	if err := r.ensureLedger(db); err != nil {
		return 0, err
	}
	done, err := r.applied(db)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, m := range r.migrations {
		if _, ok := done[m.ID()]; ok {
			continue
		}
		m := m
		err := r.withoutForeignKeys(db, func() error {
			return db.Transaction(func(tx *gorm.DB) error {
				if err := m.Up(tx); err != nil {
					return err
				}
				return tx.Create(&ledgerEntry{Timestamp: m.Timestamp, Name: m.ID()}).Error
			})
		})
		if err != nil {
			r.log.WithError(err).WithField("migration", m.ID()).Error("Migration failed")
			return count, fmt.Errorf("migration %s: %w", m.ID(), err)
		}
		r.log.WithField("migration", m.ID()).Info("Migration applied")
		count++
	}
	return count, nil
}

// Down reverts the last steps applied migrations, newest first.
func (r *Runner) Down(ctx context.Context, steps int) (int, error) {
	db := r.db.WithContext(ctx)
	if err := r.ensureLedger(db); err != nil {
		return 0, err
	}

	var entries []ledgerEntry
	if err := db.Order(`"timestamp" DESC, "id" DESC`).Limit(steps).Find(&entries).Error; err != nil {
		return 0, fmt.Errorf("read migrations table: %w", err)
	}
	byID := make(map[string]Migration, len(r.migrations))
	for _, m := range r.migrations {
		byID[m.ID()] = m
	}

	count := 0
	for _, e := range entries {
		m, ok := byID[e.Name]
		if !ok {
			return count, fmt.Errorf("migration %s is recorded but unknown", e.Name)
		}
		entry := e
		err := r.withoutForeignKeys(db, func() error {
			return db.Transaction(func(tx *gorm.DB) error {
				if m.Down != nil {
					if err := m.Down(tx); err != nil {
						return err
					}
				}
				return tx.Delete(&ledgerEntry{}, entry.ID).Error
			})
		})
		if err != nil {
			r.log.WithError(err).WithField("migration", m.ID()).Error("Migration revert failed")
			return count, fmt.Errorf("revert %s: %w", m.ID(), err)
		}
		r.log.WithField("migration", m.ID()).Info("Migration reverted")
		count++
	}
	return count, nil
}

// Status lists every known migration with its applied state.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	db := r.db.WithContext(ctx)
	if err := r.ensureLedger(db); err != nil {
		return nil, err
	}
	done, err := r.applied(db)
	if err != nil {
		return nil, err
	}
	out := make([]Status, len(r.migrations))
	for i, m := range r.migrations {
		e, ok := done[m.ID()]
		out[i] = Status{Migration: m, Applied: ok, LedgerID: e.ID}
	}
	return out, nil
}

// withoutForeignKeys runs fn with SQLite foreign key enforcement switched off,
// so table rebuilds never cascade. The pragma is ignored inside a transaction,
// hence it wraps the transaction rather than living in it. Other dialects run
// fn unchanged.
func (r *Runner) withoutForeignKeys(db *gorm.DB, fn func() error) error {
	if dialectOf(db) != dialectSQLite {
		return fn()
	}
	if err := db.Exec("PRAGMA foreign_keys = OFF").Error; err != nil {
		return fmt.Errorf("disable foreign keys: %w", err)
	}
	fnErr := fn()
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil && fnErr == nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	return fnErr
}
