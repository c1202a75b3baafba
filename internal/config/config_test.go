package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with defaults failed: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvDevelopment)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "text")
	}
	if cfg.OracleTimeout != 2*time.Second {
		t.Errorf("OracleTimeout = %s, want 2s", cfg.OracleTimeout)
	}
	if cfg.DefaultScheme != "month" {
		t.Errorf("DefaultScheme = %q, want %q", cfg.DefaultScheme, "month")
	}
	if cfg.Offline {
		t.Error("Offline = true, want false")
	}
	if cfg.Location == nil {
		t.Error("Location = nil, want resolved zone")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	clearEnv(t)

	t.Setenv("PORT", "3000")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_PATH", "/data/test.db")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("ORACLE_TIMEOUT", "500ms")
	t.Setenv("CONTENT_TIMEOUT", "3000")
	t.Setenv("OFFLINE", "true")
	t.Setenv("TIMEZONE", "Asia/Jerusalem")
	t.Setenv("DEFAULT_SCHEME", "week")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.Env != EnvProduction {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvProduction)
	}
	if cfg.DatabasePath != "/data/test.db" {
		t.Errorf("DatabasePath = %q, want %q", cfg.DatabasePath, "/data/test.db")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, "json")
	}
	if cfg.OracleTimeout != 500*time.Millisecond {
		t.Errorf("OracleTimeout = %s, want 500ms", cfg.OracleTimeout)
	}
	if cfg.ContentTimeout != 3*time.Second {
		t.Errorf("ContentTimeout = %s, want 3s", cfg.ContentTimeout)
	}
	if !cfg.Offline {
		t.Error("Offline = false, want true")
	}
	if cfg.Location == nil || cfg.Location.String() != "Asia/Jerusalem" {
		t.Errorf("Location = %v, want Asia/Jerusalem", cfg.Location)
	}
	if cfg.DefaultScheme != "week" {
		t.Errorf("DefaultScheme = %q, want %q", cfg.DefaultScheme, "week")
	}
}

func validConfig() Config {
	return Config{
		Port:           8080,
		Env:            EnvDevelopment,
		DatabasePath:   "./data/test.db",
		LogLevel:       "info",
		LogFormat:      "text",
		HebcalURL:      "https://www.hebcal.com/converter",
		ContentURL:     "https://www.sefaria.org",
		OracleTimeout:  2 * time.Second,
		ContentTimeout: 8 * time.Second,
		Timezone:       "UTC",
		DefaultScheme:  "month",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid development config", func(c *Config) {}, false},
		{"valid production config", func(c *Config) { c.Env = EnvProduction; c.LogFormat = "json" }, false},
		{"invalid port - too low", func(c *Config) { c.Port = 0 }, true},
		{"invalid port - too high", func(c *Config) { c.Port = 70000 }, true},
		{"invalid environment", func(c *Config) { c.Env = "invalid" }, true},
		{"invalid log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"invalid log format", func(c *Config) { c.LogFormat = "xml" }, true},
		{"empty database path", func(c *Config) { c.DatabasePath = "" }, true},
		{"missing hebcal url", func(c *Config) { c.HebcalURL = "" }, true},
		{"offline needs no urls", func(c *Config) { c.Offline = true; c.HebcalURL = ""; c.ContentURL = "" }, false},
		{"zero oracle timeout", func(c *Config) { c.OracleTimeout = 0 }, true},
		{"negative content timeout", func(c *Config) { c.ContentTimeout = -time.Second }, true},
		{"book is not a daily scheme", func(c *Config) { c.DefaultScheme = "book" }, true},
		{"unknown timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateResolvesLocation(t *testing.T) {
	cfg := validConfig()
	cfg.Timezone = "America/New_York"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got := cfg.Now().Location().String(); got != "America/New_York" {
		t.Errorf("Now() zone = %q, want America/New_York", got)
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	cfg := &Config{Env: EnvDevelopment}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment() = false, want true")
	}

	cfg.Env = EnvProduction
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true, want false")
	}
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := &Config{Env: EnvProduction}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}

	cfg.Env = EnvDevelopment
	if cfg.IsProduction() {
		t.Error("IsProduction() = true, want false")
	}
}

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"PORT", "ENV", "DATABASE_PATH", "LOG_LEVEL", "LOG_FORMAT",
		"HEBCAL_URL", "CONTENT_URL", "ORACLE_TIMEOUT", "CONTENT_TIMEOUT",
		"OFFLINE", "TIMEZONE", "DEFAULT_SCHEME",
	}
	for _, v := range vars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}
