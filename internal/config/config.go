package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig      `mapstructure:"server" validate:"required"`
	Logging     LoggingConfig     `mapstructure:"logging" validate:"required"`
	CORS        CORSConfig        `mapstructure:"cors"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	Store       StoreConfig       `mapstructure:"store" validate:"required"`
	Idempotency IdempotencyConfig `mapstructure:"idempotency"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port" validate:"required,numeric"`
	Env             string        `mapstructure:"env" validate:"oneof=development staging production test"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes" validate:"gt=0"`
}

// IsProduction reports whether the server runs in production mode
func (s ServerConfig) IsProduction() bool {
	return s.Env == "production"
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=json text"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=1"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress"`
}

// CORSConfig holds allowed cross-origin callers
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig holds per-client request limits
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests" validate:"required_if=Enabled true,gte=0"`
	Window   time.Duration `mapstructure:"window" validate:"required_if=Enabled true,gte=0"`
}

// StoreConfig selects and configures the session store
type StoreConfig struct {
	Driver   string         `mapstructure:"driver" validate:"oneof=memory sqlite supabase"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Supabase SupabaseConfig `mapstructure:"supabase"`
}

// SQLiteConfig holds the embedded database location
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// SupabaseConfig holds Supabase-specific configuration
type SupabaseConfig struct {
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service_key"`
	Table      string `mapstructure:"table"`
}

// IdempotencyConfig sizes the save-session replay cache
type IdempotencyConfig struct {
	TTL  time.Duration `mapstructure:"ttl" validate:"gt=0"`
	Size int           `mapstructure:"size" validate:"gt=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads configuration from a .env file, environment variables and
// config files
func Load() (*Config, error) {
	// A missing .env is normal outside local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("STUDYGUIDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Also bind to non-prefixed environment variables for backward compatibility
	_ = v.BindEnv("server.port", "STUDYGUIDE_SERVER_PORT", "PORT")
	_ = v.BindEnv("store.supabase.url", "STUDYGUIDE_STORE_SUPABASE_URL", "SUPABASE_URL")
	_ = v.BindEnv("store.supabase.service_key", "STUDYGUIDE_STORE_SUPABASE_SERVICE_KEY", "SUPABASE_SERVICE_KEY")

	// Read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// It's okay if config file doesn't exist
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5001")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.max_body_bytes", int64(4<<20))

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.max_size_mb", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age_days", 28)

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 120)
	v.SetDefault("rate_limit.window", time.Minute)

	v.SetDefault("store.driver", "memory")
	v.SetDefault("store.sqlite.path", "data/sessions.db")
	v.SetDefault("store.supabase.table", "study_sessions")

	v.SetDefault("idempotency.ttl", 24*time.Hour)
	v.SetDefault("idempotency.size", 10000)
}

func decode(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that all configuration values are present and consistent
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	switch c.Store.Driver {
	case "sqlite":
		if c.Store.SQLite.Path == "" {
			return fmt.Errorf("store.sqlite.path is required for the sqlite driver")
		}
	case "supabase":
		if c.Store.Supabase.URL == "" {
			return fmt.Errorf("SUPABASE_URL is required for the supabase driver")
		}
		if c.Store.Supabase.ServiceKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_KEY is required for the supabase driver")
		}
	}
	return nil
}
