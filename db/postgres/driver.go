package postgres

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open creates a GORM *DB backed by PostgreSQL through pgx.
func Open(dsn string, cfg *gorm.Config) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), cfg)
}
