package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"FinCharts/internal/model"

	"gopkg.in/yaml.v3"
)

// Providers lists the accepted data_source.provider values.
var Providers = []string{"yahoo", "rest", "alpaca", "csv", "parquet", "sqlite"}

// Job is one scheduled chart generation.
type Job struct {
	Name    string   `yaml:"name"`
	Cron    string   `yaml:"cron"`
	Months  int      `yaml:"months"`
	Symbols []string `yaml:"symbols"`
	Field   string   `yaml:"field"`
}

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Provider  string `yaml:"provider"`
		BaseURL   string `yaml:"base_url"`
		APIKey    string `yaml:"api_key"`
		APISecret string `yaml:"api_secret"`
		Dir       string `yaml:"dir"`
	} `yaml:"data_source"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Output struct {
		Dir           string `yaml:"dir"`
		DisableViewer bool   `yaml:"disable_viewer"`
	} `yaml:"output"`
	Schedule struct {
		Jobs []Job `yaml:"jobs"`
	} `yaml:"schedule"`
	Proxy    string `yaml:"proxy"`
	LogLevel string `yaml:"log_level"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("FINCHARTS_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("REST_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("REST_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("ALPACA_SECRET_KEY"); v != "" {
		cfg.DataSource.APISecret = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.DataSource.Dir = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("DISABLE_VIEWER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Output.DisableViewer = b
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	// Defaults
	cfg.DataSource.Provider = strings.ToLower(strings.TrimSpace(cfg.DataSource.Provider))
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "."
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	for i := range cfg.Schedule.Jobs {
		if cfg.Schedule.Jobs[i].Name == "" {
			cfg.Schedule.Jobs[i].Name = fmt.Sprintf("job-%d", i+1)
		}
	}

	return cfg, nil
}

// Validate checks provider requirements, scheduled jobs and the Telegram pair.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo":
	case "rest":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for provider rest")
		}
	case "alpaca":
		if c.DataSource.APIKey == "" || c.DataSource.APISecret == "" {
			return fmt.Errorf("data_source.api_key and data_source.api_secret are required for provider alpaca")
		}
	case "csv", "parquet":
		if c.DataSource.Dir == "" {
			return fmt.Errorf("data_source.dir is required for provider %s", c.DataSource.Provider)
		}
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("database.sqlite_path is required for provider sqlite")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not one of %s", c.DataSource.Provider, strings.Join(Providers, ", "))
	}

	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}

	for _, j := range c.Schedule.Jobs {
		if j.Cron == "" {
			return fmt.Errorf("schedule job %s: cron is required", j.Name)
		}
		if j.Months <= 0 {
			return fmt.Errorf("schedule job %s: months must be positive", j.Name)
		}
		if len(j.Symbols) == 0 {
			return fmt.Errorf("schedule job %s: symbols are required", j.Name)
		}
		if _, err := model.ParsePriceField(j.Field); err != nil {
			return fmt.Errorf("schedule job %s: %w", j.Name, err)
		}
	}
	return nil
}

// TelegramEnabled reports whether a bot token and chat are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
