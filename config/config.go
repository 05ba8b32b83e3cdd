package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Platform      PlatformConfig
	Scheduling    SchedulingConfig
	Cache         CacheConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	AllowedOrigins []string
}

// PlatformConfig describes the remote platform REST API this service fronts.
type PlatformConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

type SchedulingConfig struct {
	// BookingWindowDays bounds how far ahead an ad-hoc session may be booked
	BookingWindowDays int
}

type CacheConfig struct {
	// SessionTTLSeconds controls how long per-mentor dashboard state and
	// profile snapshots live, mirroring browser session storage lifetime
	SessionTTLSeconds int
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	CollectorEndpoint string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8082")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "")
	v.SetDefault("PLATFORM_API_TIMEOUT_SECONDS", 30)
	v.SetDefault("BOOKING_WINDOW_DAYS", 14)
	v.SetDefault("DASHBOARD_SESSION_TTL", 1800) // 30 minutes in seconds
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_SERVICE_NAME", "dashboard-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "mentorbridge")
	v.SetDefault("O11Y_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "dashboard-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines,mutex,block")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	// Parse allowed CORS origins (comma-separated)
	allowedOrigins := []string{}
	originsStr := v.GetString("ALLOWED_CORS_ORIGINS")
	if originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins = append(allowedOrigins, origin)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			AllowedOrigins: allowedOrigins,
		},
		Platform: PlatformConfig{
			BaseURL:        v.GetString("PLATFORM_API_BASE_URL"),
			TimeoutSeconds: v.GetInt("PLATFORM_API_TIMEOUT_SECONDS"),
		},
		Scheduling: SchedulingConfig{
			BookingWindowDays: v.GetInt("BOOKING_WINDOW_DAYS"),
		},
		Cache: CacheConfig{
			SessionTTLSeconds: v.GetInt("DASHBOARD_SESSION_TTL"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			CollectorEndpoint: v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_SERVICE_VERSION"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Platform.BaseURL == "" {
		return fmt.Errorf("PLATFORM_API_BASE_URL is required")
	}
	if c.Scheduling.BookingWindowDays <= 0 {
		return fmt.Errorf("BOOKING_WINDOW_DAYS must be positive")
	}
	if c.Cache.SessionTTLSeconds <= 0 {
		return fmt.Errorf("DASHBOARD_SESSION_TTL must be positive")
	}
	return nil
}

// IsDevelopment returns true when running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development"
}
