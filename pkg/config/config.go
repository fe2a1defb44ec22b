package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
		BatchSize        int           `yaml:"batch_size"`
	} `yaml:"clickhouse"`
	Cache struct {
		SnapshotTTL time.Duration `yaml:"snapshot_ttl"`
		Redis       struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Alerts struct {
		Enabled bool `yaml:"enabled"`
		Kafka   struct {
			Brokers      []string `yaml:"brokers"`
			Topic        string   `yaml:"topic"`
			RequiredAcks int      `yaml:"required_acks"`
			Compression  string   `yaml:"compression"`
			Producer     struct {
				MaxAttempts  int           `yaml:"max_attempts"`
				Linger       time.Duration `yaml:"linger"`
				BatchBytes   int           `yaml:"batch_bytes"`
				BatchSize    int           `yaml:"batch_size"`
				WriteTimeout time.Duration `yaml:"write_timeout"`
				ReadTimeout  time.Duration `yaml:"read_timeout"`
				Async        bool          `yaml:"async"`
			} `yaml:"producer"`
		} `yaml:"kafka"`
	} `yaml:"alerts"`
	Analysis struct {
		Window                int     `yaml:"window"`
		MinPeriods            int     `yaml:"min_periods"`
		ZscoreThreshold       float64 `yaml:"zscore_threshold"`
		HighSeverityThreshold float64 `yaml:"high_severity_threshold"`
		AnomalyLookbackDays   int     `yaml:"anomaly_lookback_days"`
		MaxDetailPoints       int     `yaml:"max_detail_points"`
	} `yaml:"analysis"`
	Data struct {
		SeedOnEmpty bool  `yaml:"seed_on_empty"`
		Seed        int64 `yaml:"seed"`
		SchemeCount int   `yaml:"scheme_count"`
	} `yaml:"data"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Alerts.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Alerts.Kafka.Topic = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}
	if c.Analysis.Window == 0 {
		c.Analysis.Window = 20
	}
	if c.Analysis.MinPeriods == 0 {
		c.Analysis.MinPeriods = 5
	}
	if c.Analysis.ZscoreThreshold == 0 {
		c.Analysis.ZscoreThreshold = 2.0
	}
	if c.Analysis.HighSeverityThreshold == 0 {
		c.Analysis.HighSeverityThreshold = 3.0
	}
	if c.Analysis.AnomalyLookbackDays == 0 {
		c.Analysis.AnomalyLookbackDays = 7
	}
	if c.Analysis.MaxDetailPoints == 0 {
		c.Analysis.MaxDetailPoints = 60
	}
	if c.ClickHouse.BatchSize == 0 {
		c.ClickHouse.BatchSize = 2000
	}
	if c.Cache.SnapshotTTL == 0 {
		c.Cache.SnapshotTTL = 5 * time.Minute
	}
	if c.Data.SchemeCount == 0 {
		c.Data.SchemeCount = 15
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required")
	}
	if c.ClickHouse.Database == "" {
		return fmt.Errorf("clickhouse.database is required")
	}
	if c.Analysis.Window < 2 {
		return fmt.Errorf("analysis.window must be at least 2, got %d", c.Analysis.Window)
	}
	if c.Analysis.MinPeriods < 2 || c.Analysis.MinPeriods > c.Analysis.Window {
		return fmt.Errorf("analysis.min_periods must be in [2, window], got %d", c.Analysis.MinPeriods)
	}
	if c.Analysis.ZscoreThreshold <= 0 {
		return fmt.Errorf("analysis.zscore_threshold must be positive, got %v", c.Analysis.ZscoreThreshold)
	}
	if c.Analysis.HighSeverityThreshold <= c.Analysis.ZscoreThreshold {
		return fmt.Errorf("analysis.high_severity_threshold must exceed zscore_threshold, got %v <= %v",
			c.Analysis.HighSeverityThreshold, c.Analysis.ZscoreThreshold)
	}
	if c.Alerts.Enabled && len(c.Alerts.Kafka.Brokers) == 0 {
		return fmt.Errorf("alerts.kafka.brokers cannot be empty when alerts are enabled")
	}
	return nil
}
