// Package migrations applies the embedded schema migrations. MySQL goes
// through golang-migrate so production schemas are versioned; the sqlite
// development driver falls back to gorm AutoMigrate.
package migrations

import (
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	"github.com/pixamint/pixamint/internal/infrastructure/persistence/models"
	"github.com/pixamint/pixamint/internal/shared/logger"
)

//go:embed sql/*.sql
var migrationFS embed.FS

// Run brings the schema up to date.
func Run(db *gorm.DB, driver string, log logger.Interface) error {
	if driver == "sqlite" {
		return autoMigrate(db, log)
	}
	return runMigrate(db, log)
}

// Down rolls back the most recent migration. Only the versioned mysql
// path supports rollback.
func Down(db *gorm.DB, driver string, log logger.Interface) error {
	if driver == "sqlite" {
		return fmt.Errorf("rollback is not supported for the sqlite driver")
	}

	m, err := newMigrator(db)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-1); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}

	version, _, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	log.Infow("migration rolled back", "version", version)
	return nil
}

// Version reports the current schema version and dirty flag.
func Version(db *gorm.DB, driver string) (uint, bool, error) {
	if driver == "sqlite" {
		return 0, false, fmt.Errorf("versioned migrations are not used for the sqlite driver")
	}

	m, err := newMigrator(db)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err == migrate.ErrNilVersion {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

func newMigrator(db *gorm.DB) (*migrate.Migrate, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	source, err := iofs.New(migrationFS, "sql")
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	dbDriver, err := migratemysql.WithInstance(sqlDB, &migratemysql.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "mysql", dbDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

func runMigrate(db *gorm.DB, log logger.Interface) error {
	m, err := newMigrator(db)
	if err != nil {
		return err
	}
	defer m.Close()

	currentVersion, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d", currentVersion)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	finalVersion, _, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get final migration version: %w", err)
	}

	log.Infow("migrations applied",
		"from_version", currentVersion,
		"to_version", finalVersion,
	)
	return nil
}

func autoMigrate(db *gorm.DB, log logger.Interface) error {
	log.Infow("running gorm automigrate", "driver", "sqlite")
	return db.AutoMigrate(
		&models.UserModel{},
		&models.PlanModel{},
		&models.SubscriptionModel{},
		&models.PaymentModel{},
		&models.GenerationModel{},
		&models.WebhookEventModel{},
	)
}
