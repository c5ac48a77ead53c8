// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Crawler  CrawlerConfig  `mapstructure:"crawler"`
	Scraper  ScraperConfig  `mapstructure:"scraper"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	DB       DBConfig       `mapstructure:"db"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// CrawlerConfig governs link discovery behavior.
type CrawlerConfig struct {
	Seeds          []string `mapstructure:"seeds"`
	MaxDepth       int      `mapstructure:"max_depth"`
	ProductMarkers []string `mapstructure:"product_markers"`
	ExcludeMarkers []string `mapstructure:"exclude_markers"`
	DelayMinMs     int      `mapstructure:"delay_min_ms"`
	DelayMaxMs     int      `mapstructure:"delay_max_ms"`
}

// ScraperConfig governs retry behavior for product page scrapes.
type ScraperConfig struct {
	MaxAttempts   int `mapstructure:"max_attempts"`
	BackoffBaseMs int `mapstructure:"backoff_base_ms"`
	BackoffMaxMs  int `mapstructure:"backoff_max_ms"`
}

// HTTPConfig configures the outbound HTTP client.
type HTTPConfig struct {
	TimeoutSeconds int      `mapstructure:"timeout_seconds"`
	MaxParallel    int      `mapstructure:"max_parallel"`
	UserAgents     []string `mapstructure:"user_agents"`
}

// DBConfig controls access to the Postgres store. An empty DSN selects the
// in-memory store for local development.
type DBConfig struct {
	DSN      string `mapstructure:"dsn"`
	Table    string `mapstructure:"table"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// PipelineConfig controls refresh fan-out.
type PipelineConfig struct {
	Workers    int `mapstructure:"workers"`
	QueueDepth int `mapstructure:"queue_depth"`
}

// LoggingConfig controls root logger construction.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SEARCHENGINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("crawler.max_depth", 1)
	v.SetDefault("crawler.product_markers", []string{"/product/", "/p/"})
	v.SetDefault("crawler.exclude_markers", []string{"/review", "/comment"})
	v.SetDefault("crawler.delay_min_ms", 300)
	v.SetDefault("crawler.delay_max_ms", 800)
	v.SetDefault("scraper.max_attempts", 3)
	v.SetDefault("scraper.backoff_base_ms", 250)
	v.SetDefault("scraper.backoff_max_ms", 5000)
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("http.max_parallel", 2)
	v.SetDefault("db.table", "products")
	v.SetDefault("pipeline.workers", 2)
	v.SetDefault("pipeline.queue_depth", 16)
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.level", "info")
}

// Validate enforces required values and reasonable limits. Malformed seed
// URLs fail here, before any network activity.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Crawler.MaxDepth < 1 {
		return fmt.Errorf("crawler.max_depth must be >= 1")
	}
	for _, seed := range c.Crawler.Seeds {
		u, err := url.Parse(seed)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("crawler.seeds entry %q must be an absolute URL", seed)
		}
	}
	if c.Crawler.DelayMinMs < 0 || c.Crawler.DelayMaxMs < c.Crawler.DelayMinMs {
		return fmt.Errorf("crawler delay range [%d, %d] is invalid", c.Crawler.DelayMinMs, c.Crawler.DelayMaxMs)
	}
	if c.Scraper.MaxAttempts < 1 {
		return fmt.Errorf("scraper.max_attempts must be >= 1")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Pipeline.Workers <= 0 {
		return fmt.Errorf("pipeline.workers must be > 0")
	}
	return nil
}

// Timeout returns the outbound request timeout as a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// DelayRange returns the politeness delay bounds as durations.
func (c Config) DelayRange() (time.Duration, time.Duration) {
	return time.Duration(c.Crawler.DelayMinMs) * time.Millisecond,
		time.Duration(c.Crawler.DelayMaxMs) * time.Millisecond
}

// BackoffRange returns the retry backoff bounds as durations.
func (c Config) BackoffRange() (time.Duration, time.Duration) {
	return time.Duration(c.Scraper.BackoffBaseMs) * time.Millisecond,
		time.Duration(c.Scraper.BackoffMaxMs) * time.Millisecond
}
