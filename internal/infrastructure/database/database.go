package database

import (
	"seedtrace-backend/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from a Postgres DSN.
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") when running behind a connection
// pooler (PgBouncer, Supabase, Render).
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
}

// AutoMigrate runs migrations for all traceability models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.SeedVariety{},
		&domain.SeedLot{},
		&domain.LotSequence{},
		&domain.Multiplier{},
		&domain.Parcel{},
		&domain.Production{},
		&domain.DistributedLot{},
		&domain.QualityControl{},
	)
}
