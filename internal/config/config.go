package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for jobscout.
type Config struct {
	Registry RegistryConfig
	Webcache WebcacheConfig
	Scrapers []ScraperConfig
	LLM      LLMConfig
	Notifier NotifierConfig
	Retry    RetryConfig
	Daemon   DaemonConfig
	Profile  string
}

// RegistryConfig locates the posting store.
type RegistryConfig struct {
	File string `yaml:"file"`
}

// WebcacheConfig locates the page cache directory.
type WebcacheConfig struct {
	Dir string `yaml:"dir"`
}

// ScraperConfig describes one source to scrape. Source selects the adapter;
// the remaining fields are adapter parameters.
type ScraperConfig struct {
	Source     string   `yaml:"source"`
	Categories []string `yaml:"categories"`
	List       []string `yaml:"list"`
}

// LLMConfig points at an OpenAI-compatible completion endpoint.
type LLMConfig struct {
	URL     string
	Model   string
	Timeout time.Duration
}

// NotifierConfig controls event rendering.
type NotifierConfig struct {
	Suppressed bool   `yaml:"suppressed"`
	ReportFile string `yaml:"report_file"`
}

// RetryConfig holds the base interval for the retry policy's backoff.
type RetryConfig struct {
	BaseInterval time.Duration
}

// DaemonConfig holds the cron schedule for daemon mode.
type DaemonConfig struct {
	Schedule string `yaml:"schedule"`
}

const (
	defaultLLMURL       = "http://127.0.0.1:1234"
	defaultLLMModel     = "openai/gpt-oss-20b"
	defaultLLMTimeout   = 2 * time.Minute
	defaultRetryBase    = 1 * time.Second
	defaultReportFile   = "report.html"
	defaultCronSchedule = "@every 6h"
)

// rawConfig is used for YAML unmarshaling (durations as strings).
type rawConfig struct {
	Registry RegistryConfig  `yaml:"registry"`
	Webcache WebcacheConfig  `yaml:"webcache"`
	Scrapers []ScraperConfig `yaml:"scrapers"`
	LLM      rawLLMConfig    `yaml:"llm"`
	Notifier NotifierConfig  `yaml:"notifier"`
	Retry    rawRetryConfig  `yaml:"retry"`
	Daemon   DaemonConfig    `yaml:"daemon"`
	Profile  string          `yaml:"profile"`
}

type rawLLMConfig struct {
	URL     string `yaml:"url"`
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"`
}

type rawRetryConfig struct {
	BaseInterval string `yaml:"base_interval"`
}

// Load reads and parses the YAML config file at path, validates it, and
// returns Config. Environment variables in the file are expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(os.ExpandEnv(string(data)))
}

// Parse parses a YAML config document.
func Parse(document string) (*Config, error) {
	var raw rawConfig
	if err := yaml.Unmarshal([]byte(document), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	llmTimeout := defaultLLMTimeout
	if raw.LLM.Timeout != "" {
		d, err := time.ParseDuration(raw.LLM.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse llm.timeout %q: %w", raw.LLM.Timeout, err)
		}
		llmTimeout = d
	}

	retryBase := defaultRetryBase
	if raw.Retry.BaseInterval != "" {
		d, err := time.ParseDuration(raw.Retry.BaseInterval)
		if err != nil {
			return nil, fmt.Errorf("parse retry.base_interval %q: %w", raw.Retry.BaseInterval, err)
		}
		retryBase = d
	}

	cfg := &Config{
		Registry: raw.Registry,
		Webcache: raw.Webcache,
		Scrapers: raw.Scrapers,
		LLM: LLMConfig{
			URL:     withDefault(raw.LLM.URL, defaultLLMURL),
			Model:   withDefault(raw.LLM.Model, defaultLLMModel),
			Timeout: llmTimeout,
		},
		Notifier: NotifierConfig{
			Suppressed: raw.Notifier.Suppressed,
			ReportFile: withDefault(raw.Notifier.ReportFile, defaultReportFile),
		},
		Retry: RetryConfig{BaseInterval: retryBase},
		Daemon: DaemonConfig{
			Schedule: withDefault(raw.Daemon.Schedule, defaultCronSchedule),
		},
		Profile: raw.Profile,
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func validate(cfg *Config) error {
	if cfg.Registry.File == "" {
		return fmt.Errorf("registry.file is required")
	}
	if cfg.Webcache.Dir == "" {
		return fmt.Errorf("webcache.dir is required")
	}
	if len(cfg.Scrapers) == 0 {
		return fmt.Errorf("at least one scraper must be configured")
	}
	for i, s := range cfg.Scrapers {
		if s.Source == "" {
			return fmt.Errorf("scrapers[%d].source is required", i)
		}
	}
	if cfg.Profile == "" {
		return fmt.Errorf("profile is required")
	}
	if cfg.Retry.BaseInterval <= 0 {
		return fmt.Errorf("retry.base_interval must be positive, got %v", cfg.Retry.BaseInterval)
	}
	return nil
}
