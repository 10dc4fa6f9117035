package mysql

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Open creates a GORM *DB backed by MySQL. Pool limits are applied by the caller.
func Open(dsn string, cfg *gorm.Config) (*gorm.DB, error) {
	return gorm.Open(mysql.New(mysql.Config{
		DSN:               dsn,
		DefaultStringSize: 255,
	}), cfg)
}
