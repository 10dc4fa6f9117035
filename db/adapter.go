package db

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dndoverworld/server/config"
	dbmysql "github.com/dndoverworld/server/db/mysql"
	dbpostgres "github.com/dndoverworld/server/db/postgres"
	dbsqlite "github.com/dndoverworld/server/db/sqlite"
	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

const (
	defaultPostgresPort = 5432
	defaultMySQLPort    = 3306
)

// DSN assembles the driver-specific connection string from the configured
// driver, credentials, host and database name.
func DSN(cfg config.DatabaseConfig) (string, error) {
	switch cfg.Driver {
	case DriverPostgres:
		port := cfg.Port
		if port == 0 {
			port = defaultPostgresPort
		}
		u := &url.URL{
			Scheme: "postgres",
			Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
			Path:   "/" + cfg.Name,
		}
		if cfg.Username != "" {
			u.User = url.UserPassword(cfg.Username, cfg.Password)
		}
		if cfg.SSLMode != "" {
			u.RawQuery = url.Values{"sslmode": {cfg.SSLMode}}.Encode()
		}
		return u.String(), nil

	case DriverMySQL:
		port := cfg.Port
		if port == 0 {
			port = defaultMySQLPort
		}
		mc := gomysql.NewConfig()
		mc.User = cfg.Username
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(port))
		mc.DBName = cfg.Name
		mc.ParseTime = true
		mc.Loc = time.UTC
		// Report matched rather than changed rows so updates that write
		// identical values are not mistaken for missing rows.
		mc.ClientFoundRows = true
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return mc.FormatDSN(), nil

	case DriverSQLite:
		if cfg.SQLitePath == "" {
			return "", fmt.Errorf("db: sqlite_path is empty")
		}
		sep := "?"
		if strings.Contains(cfg.SQLitePath, "?") {
			sep = "&"
		}
		// SQLite leaves foreign keys off unless asked per connection.
		return cfg.SQLitePath + sep + "_foreign_keys=on", nil

	default:
		return "", fmt.Errorf("db: unknown driver %q", cfg.Driver)
	}
}

// Open returns a pooled *gorm.DB for the configured driver. The pool is
// the only shared handle; callers scope each operation with WithContext.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	level := logger.Silent
	if cfg.LogSQL {
		level = logger.Info
	}
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(level),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	var gdb *gorm.DB
	switch cfg.Driver {
	case DriverPostgres:
		gdb, err = dbpostgres.Open(dsn, gormCfg)
	case DriverMySQL:
		gdb, err = dbmysql.Open(dsn, gormCfg)
	case DriverSQLite:
		gdb, err = dbsqlite.Open(dsn, gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("db: open %s: %w", cfg.Driver, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	if cfg.MaxOpen > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	}
	if cfg.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	}
	if cfg.MaxLife > 0 {
		sqlDB.SetConnMaxLifetime(cfg.MaxLife)
	}
	return gdb, nil
}

// Close releases the underlying connection pool.
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
