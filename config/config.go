package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. DNDOW_DATABASE_PASSWORD.
const EnvPrefix = "DNDOW"

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Security SecurityConfig `mapstructure:"security"`
	Audit    AuditConfig    `mapstructure:"audit"`
}

type ServerConfig struct {
	Port  int  `mapstructure:"port"`
	Debug bool `mapstructure:"debug"`
}

// DatabaseConfig holds the fields the connection string is built from.
// Credentials come from the config file or the environment, never from code.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // postgres | mysql | sqlite
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"` // postgres only

	SQLitePath string `mapstructure:"sqlite_path"`

	MaxOpen int           `mapstructure:"max_open"`
	MaxIdle int           `mapstructure:"max_idle"`
	MaxLife time.Duration `mapstructure:"max_life"`

	LogSQL        bool          `mapstructure:"log_sql"`
	SeedRoles     []string      `mapstructure:"seed_roles"`
	StatsInterval time.Duration `mapstructure:"stats_interval"`
}

type CacheConfig struct {
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	LocalGCInterval time.Duration `mapstructure:"local_gc_interval"`
	CatalogTTL      time.Duration `mapstructure:"catalog_ttl"`
}

type SecurityConfig struct {
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

type AuditConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	QueueSize     int           `mapstructure:"queue_size"`
	BatchSize     int           `mapstructure:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

// Load reads config from the given YAML file path and applies environment
// overrides. A missing file is tolerated so deployments can rely on the
// environment alone; an empty path skips the file entirely.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults. Every key needs one so AutomaticEnv can bind it.
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.debug", false)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.username", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 0)
	v.SetDefault("database.name", "dnd_over_world")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.sqlite_path", "./data/dnd_over_world.db")
	v.SetDefault("database.max_open", 20)
	v.SetDefault("database.max_idle", 5)
	v.SetDefault("database.max_life", "1h")
	v.SetDefault("database.log_sql", false)
	v.SetDefault("database.seed_roles", []string{"player", "game_master"})
	v.SetDefault("database.stats_interval", "5m")
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.local_gc_interval", "30s")
	v.SetDefault("cache.catalog_ttl", "10m")
	v.SetDefault("security.rate_limit_rps", 50)
	v.SetDefault("security.rate_limit_burst", 100)
	v.SetDefault("audit.enabled", true)
	v.SetDefault("audit.queue_size", 1024)
	v.SetDefault("audit.batch_size", 100)
	v.SetDefault("audit.flush_interval", "2s")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
