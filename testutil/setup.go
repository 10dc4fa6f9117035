package testutil

import (
	"fmt"
	"testing"

	"github.com/dndoverworld/server/cache"
	"github.com/dndoverworld/server/config"
	dbadapter "github.com/dndoverworld/server/db"
	"github.com/dndoverworld/server/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// MemoryDatabaseConfig returns a config for a private in-memory SQLite
// database with foreign keys enforced. A single connection keeps the
// database alive for the life of the pool.
func MemoryDatabaseConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:     dbadapter.DriverSQLite,
		SQLitePath: fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpen:    1,
		MaxIdle:    1,
	}
}

// SetupTestDB opens a fresh in-memory database and runs AutoMigrate.
// It requires no external services and is safe to use in parallel tests.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := dbadapter.Open(MemoryDatabaseConfig())
	require.NoError(t, err, "SetupTestDB: Open")
	t.Cleanup(func() { _ = dbadapter.Close(db) })
	require.NoError(t, model.AutoMigrate(db), "SetupTestDB: AutoMigrate")
	return db
}

// SetupTestCache creates an in-process cache (no Redis required).
func SetupTestCache(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.New(cache.Config{})
	require.NoError(t, err, "SetupTestCache: New")
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// Seed holds the reference rows most store tests need.
type Seed struct {
	Role model.Role
	User model.User
	Race model.Race
}

// SeedBasics inserts one role, one user and one race.
func SeedBasics(t *testing.T, db *gorm.DB) Seed {
	t.Helper()
	s := Seed{
		Role: model.Role{Name: model.RolePlayer},
		Race: model.Race{Name: "Elf"},
	}
	require.NoError(t, db.Create(&s.Role).Error)
	require.NoError(t, db.Create(&s.Race).Error)
	s.User = model.User{
		Username: "aragorn",
		Email:    "aragorn@example.com",
		Password: "x",
		RoleID:   s.Role.ID,
	}
	require.NoError(t, db.Create(&s.User).Error)
	return s
}
