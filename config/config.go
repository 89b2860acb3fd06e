package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Log       LogConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	PageSize  int
}

type ServerConfig struct {
	Port    string
	GinMode string
}

// DatabaseConfig selects the gorm dialector and its DSN.
type DatabaseConfig struct {
	Driver  string // sqlite, mysql or postgres
	DSN     string
	Timeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string // text or json
}

// SessionConfig carries the key used to sign flash cookies.
type SessionConfig struct {
	SecretKey string
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

var ErrMissingSecret = errors.New("SECRET_KEY environment variable is not set")

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", "mydatabase.db")
	v.SetDefault("DB_TIMEOUT_SECONDS", 5)
	v.SetDefault("SECRET_KEY", "")
	v.SetDefault("PAGE_SIZE", 5)
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:    v.GetString("PORT"),
			GinMode: v.GetString("GIN_MODE"),
		},
		Database: DatabaseConfig{
			Driver:  strings.ToLower(v.GetString("DB_DRIVER")),
			DSN:     v.GetString("DB_DSN"),
			Timeout: time.Duration(v.GetInt("DB_TIMEOUT_SECONDS")) * time.Second,
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Session: SessionConfig{
			SecretKey: v.GetString("SECRET_KEY"),
		},
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("RATE_LIMIT_RPS"),
			Burst: v.GetInt("RATE_LIMIT_BURST"),
		},
		PageSize: v.GetInt("PAGE_SIZE"),
	}

	if cfg.Session.SecretKey == "" {
		return nil, ErrMissingSecret
	}
	switch cfg.Database.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 5
	}
	if cfg.Database.Timeout <= 0 {
		cfg.Database.Timeout = 5 * time.Second
	}
	return cfg, nil
}

// String returns a string representation of the config with the secret masked.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %s, DB: %s(%s), PageSize: %d, SecretKey: ***}",
		c.Server.Port, c.Database.Driver, c.Database.DSN, c.PageSize)
}
