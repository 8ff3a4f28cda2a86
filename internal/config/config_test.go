package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

var envKeys = []string{
	"FINCHARTS_PROVIDER", "REST_BASE_URL", "REST_API_KEY", "ALPACA_API_KEY", "ALPACA_SECRET_KEY",
	"DATA_DIR", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "HTTPS_PROXY", "SQLITE_PATH",
	"OUTPUT_DIR", "DISABLE_VIEWER", "LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataSource.Provider != "yahoo" || cfg.Output.Dir != "." || cfg.LogLevel != "info" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
data_source:
  provider: CSV
  dir: ./prices
output:
  dir: charts
  disable_viewer: true
schedule:
  jobs:
    - cron: "0 0 18 * * 1-5"
      months: 3
      symbols: [AAPL, MSFT]
      field: Close
`)
	t.Setenv("OUTPUT_DIR", "/tmp/out")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataSource.Provider != "csv" || cfg.DataSource.Dir != "./prices" {
		t.Errorf("unexpected data source: %+v", cfg.DataSource)
	}
	if cfg.Output.Dir != "/tmp/out" || !cfg.Output.DisableViewer {
		t.Errorf("unexpected output: %+v", cfg.Output)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected env log level, got %s", cfg.LogLevel)
	}
	if len(cfg.Schedule.Jobs) != 1 || cfg.Schedule.Jobs[0].Name != "job-1" {
		t.Errorf("unexpected jobs: %+v", cfg.Schedule.Jobs)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	if _, err := Load(writeConfig(t, "data_source: [unclosed")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"rest without url", func(c *Config) { c.DataSource.Provider = "rest" }, "base_url"},
		{"alpaca without secret", func(c *Config) {
			c.DataSource.Provider = "alpaca"
			c.DataSource.APIKey = "k"
		}, "api_secret"},
		{"parquet without dir", func(c *Config) { c.DataSource.Provider = "parquet" }, "data_source.dir"},
		{"sqlite without path", func(c *Config) { c.DataSource.Provider = "sqlite" }, "sqlite_path"},
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }, "not one of"},
		{"telegram token only", func(c *Config) { c.Telegram.BotToken = "t" }, "set together"},
		{"job without cron", func(c *Config) {
			c.Schedule.Jobs = []Job{{Name: "j", Months: 1, Symbols: []string{"AAPL"}}}
		}, "cron is required"},
		{"job bad months", func(c *Config) {
			c.Schedule.Jobs = []Job{{Name: "j", Cron: "@daily", Symbols: []string{"AAPL"}}}
		}, "months"},
		{"job bad field", func(c *Config) {
			c.Schedule.Jobs = []Job{{Name: "j", Cron: "@daily", Months: 1, Symbols: []string{"AAPL"}, Field: "Mid"}}
		}, "price field"},
		{"valid sqlite", func(c *Config) {
			c.DataSource.Provider = "sqlite"
			c.Database.SQLitePath = "prices.db"
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			c.DataSource.Provider = "yahoo"
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
