package config

import (
	"os"
	"testing"
	"time"
)

var envVars = []string{
	"HTTP_PORT",
	"ALLOWED_ORIGIN",
	"BACKEND_URL",
	"BACKEND_TIMEOUT_SECONDS",
	"VISITOR_COOKIE",
	"COOKIE_SECURE",
	"SESSION_IDLE_TTL_MINUTES",
	"STORAGE_BACKEND",
	"DB_DSN",
	"KO_DATA_PATH",
	"REDIS_ADDR",
	"REDIS_PASSWORD",
	"REDIS_DB",
	"REDIS_PREFIX",
	"LOG_LEVEL",
	"LOG_FORMAT",
}

// clearEnv unsets every variable LoadConfig reads for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}

func TestLoadConfig_DefaultValues(t *testing.T) {
	clearEnv(t)

	config := LoadConfig()

	if config.HTTPPort != "8080" {
		t.Errorf("Expected HTTPPort to be '8080', got '%s'", config.HTTPPort)
	}
	if config.AllowedOrigin != "*" {
		t.Errorf("Expected AllowedOrigin to be '*', got '%s'", config.AllowedOrigin)
	}
	if config.Backend.BaseURL != "http://localhost:5000/api" {
		t.Errorf("Expected Backend.BaseURL to be 'http://localhost:5000/api', got '%s'", config.Backend.BaseURL)
	}
	if config.Backend.Timeout != 15*time.Second {
		t.Errorf("Expected Backend.Timeout to be 15s, got %v", config.Backend.Timeout)
	}
	if config.Session.CookieName != "ssm_visitor" {
		t.Errorf("Expected Session.CookieName to be 'ssm_visitor', got '%s'", config.Session.CookieName)
	}
	if config.Session.CookieSecure {
		t.Errorf("Expected Session.CookieSecure to be false")
	}
	if config.Session.IdleTTL != time.Hour {
		t.Errorf("Expected Session.IdleTTL to be 1h, got %v", config.Session.IdleTTL)
	}
	if config.Storage != StorageMemory {
		t.Errorf("Expected Storage to be 'memory', got '%s'", config.Storage)
	}
	if config.Database.Migrations != "kodata/migrations" {
		t.Errorf("Expected Database.Migrations to be 'kodata/migrations', got '%s'", config.Database.Migrations)
	}
	if config.Redis.Addr != "localhost:6379" || config.Redis.DB != 0 {
		t.Errorf("Unexpected redis defaults %+v", config.Redis)
	}
	if config.Log.Level != "info" || config.Log.Format != "console" {
		t.Errorf("Unexpected log defaults %+v", config.Log)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestLoadConfig_EnvironmentVariables(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("ALLOWED_ORIGIN", "https://console.example.com")
	t.Setenv("BACKEND_URL", "https://api.example.com/api")
	t.Setenv("BACKEND_TIMEOUT_SECONDS", "5")
	t.Setenv("VISITOR_COOKIE", "visitor")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("SESSION_IDLE_TTL_MINUTES", "15")
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("KO_DATA_PATH", "/custom/path")
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("REDIS_DB", "3")

	config := LoadConfig()

	if config.HTTPPort != "9090" {
		t.Errorf("Expected HTTPPort to be '9090', got '%s'", config.HTTPPort)
	}
	if config.AllowedOrigin != "https://console.example.com" {
		t.Errorf("Expected AllowedOrigin to be 'https://console.example.com', got '%s'", config.AllowedOrigin)
	}
	if config.Backend.BaseURL != "https://api.example.com/api" {
		t.Errorf("Expected Backend.BaseURL to be 'https://api.example.com/api', got '%s'", config.Backend.BaseURL)
	}
	if config.Backend.Timeout != 5*time.Second {
		t.Errorf("Expected Backend.Timeout to be 5s, got %v", config.Backend.Timeout)
	}
	if config.Session.CookieName != "visitor" || !config.Session.CookieSecure {
		t.Errorf("Unexpected session config %+v", config.Session)
	}
	if config.Session.IdleTTL != 15*time.Minute {
		t.Errorf("Expected Session.IdleTTL to be 15m, got %v", config.Session.IdleTTL)
	}
	if config.Storage != StorageRedis {
		t.Errorf("Expected Storage to be 'redis', got '%s'", config.Storage)
	}
	if config.Database.Migrations != "/custom/path/migrations" {
		t.Errorf("Expected Database.Migrations to be '/custom/path/migrations', got '%s'", config.Database.Migrations)
	}
	if config.Redis.Addr != "redis:6380" || config.Redis.DB != 3 {
		t.Errorf("Unexpected redis config %+v", config.Redis)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"postgres", func(c *Config) { c.Storage = StoragePostgres }, false},
		{"unknown storage", func(c *Config) { c.Storage = "sqlite" }, true},
		{"empty backend", func(c *Config) { c.Backend.BaseURL = "" }, true},
		{"zero timeout", func(c *Config) { c.Backend.Timeout = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			config := LoadConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr && err == nil {
				t.Errorf("Expected an error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestGetEnvAsInt(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected int
	}{
		{"unset", "", 100},
		{"valid", "42", 42},
		{"zero", "0", 0},
		{"negative", "-50", -50},
		{"invalid", "not_a_number", 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_INT_KEY", tt.envValue)
			if result := getEnvAsInt("TEST_INT_KEY", 100); result != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, result)
			}
		})
	}
}
