package storage

import (
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	platformerrors "github.com/codegoddy/skincare/internal/platform/errors"
)

// Driver identifiers supported by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects the database backend.
type Config struct {
	Driver string
	DSN    string
}

// Open connects to the configured database and applies the schema.
func Open(cfg Config) (*gorm.DB, error) {
	const op = "storage.Open"

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", DriverSQLite:
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "data/skincare.db"
		}
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		if cfg.DSN == "" {
			return nil, platformerrors.New(platformerrors.KindConfig, op, "postgres requires a dsn")
		}
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, platformerrors.New(platformerrors.KindConfig, op, "unsupported storage driver: "+cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.KindStorage, op, "open database", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate applies the schema for all storefront models.
func Migrate(db *gorm.DB) error {
	const op = "storage.Migrate"
	if err := db.AutoMigrate(
		&Profile{},
		&Product{},
		&Order{},
		&OrderItem{},
		&WishlistItem{},
		&StoreSettings{},
	); err != nil {
		return platformerrors.Wrap(platformerrors.KindStorage, op, "auto migrate", err)
	}
	return nil
}
