package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "a_very_secret_key_change_me"

type JWTConfig struct {
	Secret              string
	Issuer              string
	AccessTokenDuration time.Duration
}

type DatabaseConfig struct {
	Driver string
	// sqlite3 DSN, e.g. file:blog.db?_fk=1. Never logged: it may carry credentials.
	URL string
}

type RedisSettings struct {
	Address  string
	Password string
	DB       int
}

type SessionConfig struct {
	// Store is "redis" or "memory".
	Store           string
	CleanupInterval time.Duration
}

type BlogConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

type Config struct {
	// Server port
	Port            string
	AppEnv          string
	LogLevel        string
	ShutdownTimeout time.Duration
	JWT             JWTConfig
	Database        DatabaseConfig
	Redis           RedisSettings
	Session         SessionConfig
	Blog            BlogConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_ISSUER", "scs-blog-server")
	v.SetDefault("ACCESS_TOKEN_DURATION", "1h")
	v.SetDefault("DATABASE_DRIVER", "sqlite3")
	v.SetDefault("DATABASE_URL", "file:blog?mode=memory&cache=shared&_fk=1")
	v.SetDefault("SESSION_STORE", "memory")
	v.SetDefault("SESSION_CLEANUP_INTERVAL", "5m")
	v.SetDefault("REDIS_ADDRESS", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("BLOG_PAGE_SIZE", 20)
	v.SetDefault("BLOG_MAX_PAGE_SIZE", 100)
}

// LoadConfig reads .env from the working directory or ./config, then the environment.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		log.Info().Msg("Config file not found, using defaults and environment variables")
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:            v.GetString("APP_PORT"),
		AppEnv:          v.GetString("APP_ENV"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		JWT: JWTConfig{
			Secret:              v.GetString("JWT_SECRET"),
			Issuer:              v.GetString("JWT_ISSUER"),
			AccessTokenDuration: v.GetDuration("ACCESS_TOKEN_DURATION"),
		},
		Database: DatabaseConfig{
			Driver: v.GetString("DATABASE_DRIVER"),
			URL:    v.GetString("DATABASE_URL"),
		},
		Redis: RedisSettings{
			Address:  v.GetString("REDIS_ADDRESS"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			Store:           v.GetString("SESSION_STORE"),
			CleanupInterval: v.GetDuration("SESSION_CLEANUP_INTERVAL"),
		},
		Blog: BlogConfig{
			DefaultPageSize: v.GetInt("BLOG_PAGE_SIZE"),
			MaxPageSize:     v.GetInt("BLOG_MAX_PAGE_SIZE"),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET must not be empty")
	}
	if cfg.JWT.Secret == defaultJWTSecret {
		log.Warn().Msg("Using default JWT secret. Set JWT_SECRET environment variable or in config file.")
	}
	if cfg.JWT.AccessTokenDuration <= 0 {
		return nil, fmt.Errorf("ACCESS_TOKEN_DURATION must be positive, got %s", cfg.JWT.AccessTokenDuration)
	}

	switch cfg.Session.Store {
	case "redis", "memory":
	default:
		return nil, fmt.Errorf("unknown SESSION_STORE %q, expected redis or memory", cfg.Session.Store)
	}

	if cfg.Blog.MaxPageSize <= 0 {
		cfg.Blog.MaxPageSize = 100
	}
	if cfg.Blog.DefaultPageSize <= 0 || cfg.Blog.DefaultPageSize > cfg.Blog.MaxPageSize {
		log.Warn().Int("pageSize", cfg.Blog.DefaultPageSize).Msg("Invalid BLOG_PAGE_SIZE, defaulting to 20")
		cfg.Blog.DefaultPageSize = min(20, cfg.Blog.MaxPageSize)
	}

	return cfg, nil
}
