package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Database struct {
		LedgerPath  string `yaml:"ledger_path"`
		HistoryPath string `yaml:"history_path"`
	} `yaml:"database"`
	Redis struct {
		Addr string `yaml:"addr"`
		TTL  int    `yaml:"ttl_seconds"`
	} `yaml:"redis"`
	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"kafka"`
	Webhook struct {
		URL string `yaml:"url"`
	} `yaml:"webhook"`
	Schedule struct {
		AccrualCron   string `yaml:"accrual_cron"`
		RetentionCron string `yaml:"retention_cron"`
		RetentionDays int    `yaml:"retention_days"`
		AnchorDate    string `yaml:"anchor_date"`
	} `yaml:"schedule"`
	RateLimit struct {
		Capacity      int `yaml:"capacity"`
		WindowSeconds int `yaml:"window_seconds"`
	} `yaml:"rate_limit"`
	Holidays []string `yaml:"holidays"`
	Proxy    string   `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
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
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("LEDGER_DB_PATH"); v != "" {
		cfg.Database.LedgerPath = v
	}
	if v := os.Getenv("HISTORY_DB_PATH"); v != "" {
		cfg.Database.HistoryPath = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		cfg.Kafka.Topic = v
	}
	if v := os.Getenv("WEBHOOK_URL"); v != "" {
		cfg.Webhook.URL = v
	}
	if v := os.Getenv("ACCRUAL_CRON"); v != "" {
		cfg.Schedule.AccrualCron = v
	}
	if v := os.Getenv("RETENTION_CRON"); v != "" {
		cfg.Schedule.RetentionCron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Database.LedgerPath == "" {
		cfg.Database.LedgerPath = "data/ledger.db"
	}
	if cfg.Database.HistoryPath == "" {
		cfg.Database.HistoryPath = "data/history.db"
	}
	if cfg.Redis.TTL == 0 {
		cfg.Redis.TTL = 300
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "wallet.accruals"
	}
	if cfg.Schedule.AccrualCron == "" {
		// Just after midnight, every day.
		cfg.Schedule.AccrualCron = "0 5 0 * * *"
	}
	if cfg.Schedule.RetentionCron == "" {
		// Early Monday morning, once a week.
		cfg.Schedule.RetentionCron = "0 30 0 * * 1"
	}
	if cfg.Schedule.RetentionDays == 0 {
		cfg.Schedule.RetentionDays = 365
	}
	if cfg.RateLimit.Capacity == 0 {
		cfg.RateLimit.Capacity = 30
	}
	if cfg.RateLimit.WindowSeconds == 0 {
		cfg.RateLimit.WindowSeconds = 60
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Database.LedgerPath == "" {
		return fmt.Errorf("database.ledger_path is required")
	}
	if c.Schedule.AccrualCron == "" {
		return fmt.Errorf("schedule.accrual_cron is required")
	}
	return nil
}
