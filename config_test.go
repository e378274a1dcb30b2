package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		return Config{port: 8080, database: "truthordare.db", sessionTimeout: time.Hour}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"port too low", func(c *Config) { c.port = 0 }, true},
		{"port too high", func(c *Config) { c.port = 70000 }, true},
		{"cert without key", func(c *Config) { c.tlsCert = "cert.pem" }, true},
		{"cert and key", func(c *Config) { c.tlsCert, c.tlsKey = "cert.pem", "key.pem" }, false},
		{"blank database", func(c *Config) { c.database = "  " }, true},
		{"negative timeout", func(c *Config) { c.sessionTimeout = -time.Second }, true},
		{"no timeout", func(c *Config) { c.sessionTimeout = 0 }, false},
	}

	for _, tt := range tests {
		cfg := valid()
		tt.mutate(&cfg)

		err := cfg.validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: validate() = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestConfigScheme(t *testing.T) {
	t.Parallel()

	if got := (&Config{}).scheme(); got != "http" {
		t.Errorf("scheme = %q, want http", got)
	}
	if got := (&Config{tlsCert: "c", tlsKey: "k"}).scheme(); got != "https" {
		t.Errorf("scheme = %q, want https", got)
	}
}

func TestFlagDefaults(t *testing.T) {
	cfg := &Config{}
	cmd := newCmd(cfg)

	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatal(err)
	}

	if cfg.port != 8080 || cfg.database != "truthordare.db" || !cfg.seedScenarios || cfg.sessionTimeout != time.Hour {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("TRUTHORDARE_PORT", "9090")
	t.Setenv("TRUTHORDARE_SEED_SCENARIOS", "false")
	t.Setenv("TRUTHORDARE_CORS_ORIGIN", "https://a.example,https://b.example")

	cfg := &Config{}
	cmd := newCmd(cfg)

	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatal(err)
	}

	if cfg.port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.port)
	}
	if cfg.seedScenarios {
		t.Error("seed-scenarios should be off")
	}
	if len(cfg.corsOrigins) != 2 || cfg.corsOrigins[1] != "https://b.example" {
		t.Errorf("cors origins = %v", cfg.corsOrigins)
	}
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("TRUTHORDARE_PORT", "9090")

	cfg := &Config{}
	cmd := newCmd(cfg)

	if err := cmd.ParseFlags([]string{"--port", "7070"}); err != nil {
		t.Fatal(err)
	}

	if cfg.port != 7070 {
		t.Errorf("port = %d, want 7070", cfg.port)
	}
}

func TestLoadEnvFile(t *testing.T) {
	const key = "TRUTHORDARE_ENV_FILE_TEST"

	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte(key+"=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := loadEnvFile(path); err != nil {
		t.Fatalf("loadEnvFile: %v", err)
	}

	if got := os.Getenv(key); got != "from-file" {
		t.Errorf("%s = %q, want from-file", key, got)
	}

	if err := loadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing env file should be ignored, got %v", err)
	}
}
