// Package config loads and validates the bot configuration from a
// YAML or JSON file, with environment overrides for secrets.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete bot configuration.
type Config struct {
	Topic      string           `json:"topic" yaml:"topic"`
	Collector  CollectorConfig  `json:"collector" yaml:"collector"`
	Classifier ClassifierConfig `json:"classifier" yaml:"classifier"`
	Panel      PanelConfig      `json:"panel" yaml:"panel"`
	Policy     PolicyConfig     `json:"policy" yaml:"policy"`
	Ledger     LedgerConfig     `json:"ledger" yaml:"ledger"`
	Schedule   ScheduleConfig   `json:"schedule" yaml:"schedule"`
	LogLevel   string           `json:"log_level" yaml:"log_level"`
}

// CollectorConfig drives the browser scraper.
type CollectorConfig struct {
	BaseURL       string `json:"base_url" yaml:"base_url"`
	CookieDomain  string `json:"cookie_domain" yaml:"cookie_domain"`
	SessionCookie string `json:"session_cookie,omitempty" yaml:"session_cookie,omitempty"`
	ScrollPasses  int    `json:"scroll_passes" yaml:"scroll_passes"`
	Headless      bool   `json:"headless" yaml:"headless"`
	SettleDelayMS int    `json:"settle_delay_ms" yaml:"settle_delay_ms"`
	NavTimeoutSec int    `json:"nav_timeout_sec" yaml:"nav_timeout_sec"`
}

// ClassifierConfig drives the LLM sentiment call.
type ClassifierConfig struct {
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	Model  string `json:"model" yaml:"model"`
}

// PanelConfig drives the SMM order client.
type PanelConfig struct {
	Endpoint             string `json:"endpoint" yaml:"endpoint"`
	Key                  string `json:"key,omitempty" yaml:"key,omitempty"`
	LikesServiceID       string `json:"likes_service_id" yaml:"likes_service_id"`
	ImpressionsServiceID string `json:"impressions_service_id" yaml:"impressions_service_id"`
	OrderPauseMS         int    `json:"order_pause_ms" yaml:"order_pause_ms"`
}

// PolicyConfig holds the decision-table knobs.
type PolicyConfig struct {
	ViewThreshold      int  `json:"view_threshold" yaml:"view_threshold"`
	LikeMin            int  `json:"like_min" yaml:"like_min"`
	LikeMax            int  `json:"like_max" yaml:"like_max"`
	ImpressionQty      int  `json:"impression_qty" yaml:"impression_qty"`
	ImpressionsEnabled bool `json:"impressions_enabled" yaml:"impressions_enabled"`
}

// LedgerConfig selects the processed-posts store.
type LedgerConfig struct {
	Type string `json:"type" yaml:"type"` // "json" or "sqlite"
	Path string `json:"path" yaml:"path"`
}

// ScheduleConfig controls the run loop.
type ScheduleConfig struct {
	IntervalMinutes    int `json:"interval_minutes" yaml:"interval_minutes"`
	LogIntervalSeconds int `json:"log_interval_seconds" yaml:"log_interval_seconds"`
}

// Default returns the shipped defaults.
func Default() *Config {
	return &Config{
		Topic: "$chex",
		Collector: CollectorConfig{
			BaseURL:       "https://twitter.com",
			CookieDomain:  ".twitter.com",
			ScrollPasses:  4,
			Headless:      false,
			SettleDelayMS: 2000,
			NavTimeoutSec: 30,
		},
		Classifier: ClassifierConfig{
			Model: "gemini-2.0-flash",
		},
		Panel: PanelConfig{
			LikesServiceID:       "979",
			ImpressionsServiceID: "989",
			OrderPauseMS:         100,
		},
		Policy: PolicyConfig{
			ViewThreshold:      30,
			LikeMin:            20,
			LikeMax:            30,
			ImpressionQty:      100,
			ImpressionsEnabled: true,
		},
		Ledger: LedgerConfig{
			Type: "json",
			Path: "./processed_posts.json",
		},
		Schedule: ScheduleConfig{
			IntervalMinutes:    200,
			LogIntervalSeconds: 10,
		},
		LogLevel: "info",
	}
}

// LoadFromFile loads configuration from path (YAML or JSON), layered
// over Default so absent fields keep their defaults, then applies
// environment overrides.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides secrets from the environment. Secrets belong in
// the environment, not in a config file that ends up in a repo.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("BUZZLINE_SESSION_COOKIE"); v != "" {
		c.Collector.SessionCookie = v
	}
	if v := os.Getenv("BUZZLINE_GEMINI_API_KEY"); v != "" {
		c.Classifier.APIKey = v
	}
	if v := os.Getenv("BUZZLINE_PANEL_KEY"); v != "" {
		c.Panel.Key = v
	}
	if v := os.Getenv("BUZZLINE_PANEL_URL"); v != "" {
		c.Panel.Endpoint = v
	}
}

// Validate checks the configuration is runnable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Topic) == "" {
		return fmt.Errorf("topic is required")
	}
	if c.Collector.BaseURL == "" {
		return fmt.Errorf("collector.base_url is required")
	}
	if c.Collector.SessionCookie == "" {
		return fmt.Errorf("collector session cookie is required (BUZZLINE_SESSION_COOKIE)")
	}
	if c.Collector.ScrollPasses <= 0 {
		return fmt.Errorf("collector.scroll_passes must be positive")
	}
	if c.Classifier.APIKey == "" {
		return fmt.Errorf("classifier API key is required (BUZZLINE_GEMINI_API_KEY)")
	}
	if c.Panel.Endpoint == "" {
		return fmt.Errorf("panel endpoint is required (BUZZLINE_PANEL_URL)")
	}
	if c.Panel.Key == "" {
		return fmt.Errorf("panel key is required (BUZZLINE_PANEL_KEY)")
	}
	if c.Panel.LikesServiceID == "" {
		return fmt.Errorf("panel.likes_service_id is required")
	}
	if c.Policy.ImpressionsEnabled && c.Panel.ImpressionsServiceID == "" {
		return fmt.Errorf("panel.impressions_service_id required when impressions are enabled")
	}
	if c.Policy.ViewThreshold < 0 {
		return fmt.Errorf("policy.view_threshold must be non-negative")
	}
	if c.Policy.LikeMin <= 0 || c.Policy.LikeMax < c.Policy.LikeMin {
		return fmt.Errorf("policy like range must satisfy 0 < like_min <= like_max")
	}
	if c.Policy.ImpressionQty <= 0 {
		return fmt.Errorf("policy.impression_qty must be positive")
	}
	if c.Ledger.Type != "json" && c.Ledger.Type != "sqlite" {
		return fmt.Errorf("ledger.type must be 'json' or 'sqlite'")
	}
	if c.Ledger.Path == "" {
		return fmt.Errorf("ledger.path is required")
	}
	if c.Schedule.IntervalMinutes <= 0 {
		return fmt.Errorf("schedule.interval_minutes must be positive")
	}
	return nil
}

// Interval returns the inter-cycle wait.
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Schedule.IntervalMinutes) * time.Minute
}

// LogInterval returns the countdown logging period.
func (c *Config) LogInterval() time.Duration {
	if c.Schedule.LogIntervalSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Schedule.LogIntervalSeconds) * time.Second
}

// SaveToFile writes the configuration to path (YAML by extension,
// JSON otherwise). Unset secrets are omitted.
func (c *Config) SaveToFile(path string) error {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
