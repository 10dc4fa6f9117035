package sqlite

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open creates a GORM *DB backed by SQLite (mattn/go-sqlite3, CGO).
func Open(dsn string, cfg *gorm.Config) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(dsn), cfg)
}
