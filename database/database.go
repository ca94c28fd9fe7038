package database

import (
	"database/sql"
	"errors"
	"fmt"

	"promotion-backend/config"
	"promotion-backend/migrations"
	"promotion-backend/models"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	dsn := cfg.DatabaseURL
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}

	logLevel := logger.Warn
	if cfg.Env == "production" {
		logLevel = logger.Error
	}

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)

	return db, nil
}

// Migrate creates or alters the promotions table from the model definition.
// Used for SQLite and local development; production uses RunMigrations.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Promotion{}); err != nil {
		return fmt.Errorf("failed to auto-migrate promotions: %w", err)
	}
	return nil
}

// RunMigrations applies the embedded SQL migrations to the PostgreSQL
// database at dsn. It uses its own connection pool and closes it before
// returning, so the application's pool is never touched.
func RunMigrations(dsn string) error {
	if dsn == "" {
		return errors.New("DATABASE_URL is not set")
	}

	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("could not open migration connection: %w", err)
	}
	defer sqlDB.Close()

	source, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("could not create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		source.Close()
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		source.Close()
		driver.Close()
		return fmt.Errorf("could not create migration instance: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source_error", srcErr).AnErr("database_error", dbErr).Msg("error closing migrations")
		}
	}()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		log.Warn().Err(err).Msg("could not read migration version")
		return nil
	}
	log.Info().Uint("version", version).Bool("dirty", dirty).Msg("migrations applied")
	return nil
}

// Setup prepares the schema according to cfg.MigrationsMode.
func Setup(db *gorm.DB, cfg *config.Config) error {
	if cfg.MigrationsMode == config.MigrationsAuto {
		return Migrate(db)
	}
	return RunMigrations(cfg.DatabaseURL)
}
