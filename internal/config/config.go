// Package config loads and validates crawler configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all crawler configuration knobs loaded via Viper.
type Config struct {
	Crawler   CrawlerConfig   `mapstructure:"crawler"`
	Scope     ScopeConfig     `mapstructure:"scope"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Report    ReportConfig    `mapstructure:"report"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// CrawlerConfig governs dispatcher and fetch behavior.
type CrawlerConfig struct {
	Seeds         []string      `mapstructure:"seeds"`
	Workers       int           `mapstructure:"workers"`
	MaxPages      int           `mapstructure:"max_pages"`
	UserAgent     string        `mapstructure:"user_agent"`
	Timeout       time.Duration `mapstructure:"timeout"`
	RPS           float64       `mapstructure:"rps"`
	Burst         int           `mapstructure:"burst"`
	RespectRobots bool          `mapstructure:"respect_robots"`
	QueueCapacity int           `mapstructure:"queue_capacity"`
}

// ScopeConfig optionally overrides the allowed host suffixes.
type ScopeConfig struct {
	HostSuffixes []string `mapstructure:"host_suffixes"`
}

// TelemetryConfig controls reporting cadence. A zero report interval
// renders the live report on every recorded visit.
type TelemetryConfig struct {
	ReportInterval     time.Duration `mapstructure:"report_interval"`
	CheckpointInterval time.Duration `mapstructure:"checkpoint_interval"`
}

// ReportConfig sets the report artifact paths.
type ReportConfig struct {
	TextPath  string `mapstructure:"text_path"`
	StatsPath string `mapstructure:"stats_path"`
}

// ServerConfig controls the optional status HTTP server.
type ServerConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk and environment. An empty path skips
// the config file and uses defaults plus FOCUSCRAWL_* env overrides.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FOCUSCRAWL")
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
	v.SetDefault("crawler.seeds", []string{
		"https://www.ics.uci.edu",
		"https://www.cs.uci.edu",
		"https://www.informatics.uci.edu",
		"https://www.stat.uci.edu",
	})
	v.SetDefault("crawler.workers", 8)
	v.SetDefault("crawler.max_pages", 0)
	v.SetDefault("crawler.user_agent", "focuscrawl/1.0")
	v.SetDefault("crawler.timeout", "15s")
	v.SetDefault("crawler.rps", 2.0)
	v.SetDefault("crawler.burst", 1)
	v.SetDefault("crawler.respect_robots", true)
	v.SetDefault("crawler.queue_capacity", 4096)
	v.SetDefault("telemetry.report_interval", "5s")
	v.SetDefault("telemetry.checkpoint_interval", "30s")
	v.SetDefault("report.text_path", "data/report.txt")
	v.SetDefault("report.stats_path", "data/stats.json")
	v.SetDefault("server.enabled", false)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if len(c.Crawler.Seeds) == 0 {
		return fmt.Errorf("crawler.seeds must not be empty")
	}
	if c.Crawler.Workers <= 0 {
		return fmt.Errorf("crawler.workers must be > 0")
	}
	if c.Crawler.Timeout <= 0 {
		return fmt.Errorf("crawler.timeout must be > 0")
	}
	if c.Crawler.QueueCapacity <= 0 {
		return fmt.Errorf("crawler.queue_capacity must be > 0")
	}
	if c.Crawler.RPS < 0 {
		return fmt.Errorf("crawler.rps must be >= 0")
	}
	if c.Server.Enabled && c.Server.Addr == "" {
		return fmt.Errorf("server.addr must be set when server is enabled")
	}
	if c.Report.TextPath == "" || c.Report.StatsPath == "" {
		return fmt.Errorf("report paths must be set")
	}
	return nil
}
