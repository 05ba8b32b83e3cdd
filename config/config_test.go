package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name: "development environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "development"},
			},
			expected: true,
		},
		{
			name: "production environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "production"},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.config.IsDevelopment())
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PLATFORM_API_BASE_URL", "https://platform.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8082", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, 14, cfg.Scheduling.BookingWindowDays)
	assert.Equal(t, 1800, cfg.Cache.SessionTTLSeconds)
	assert.Equal(t, 30, cfg.Platform.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "dashboard-api", cfg.Observability.ServiceName)
	assert.False(t, cfg.Profiling.Enabled)
}

func TestLoad_RequiresPlatformBaseURL(t *testing.T) {
	os.Unsetenv("PLATFORM_API_BASE_URL")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ParsesAllowedOrigins(t *testing.T) {
	t.Setenv("PLATFORM_API_BASE_URL", "https://platform.example.com")
	t.Setenv("ALLOWED_CORS_ORIGINS", "https://dash.example.com, https://admin.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://dash.example.com", "https://admin.example.com"}, cfg.Server.AllowedOrigins)
}

func TestLoad_RejectsNonPositiveWindow(t *testing.T) {
	t.Setenv("PLATFORM_API_BASE_URL", "https://platform.example.com")
	t.Setenv("BOOKING_WINDOW_DAYS", "0")

	_, err := Load()
	assert.Error(t, err)
}
