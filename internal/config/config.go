// File: internal/config/config.go

// Package config loads and validates the application configuration from
// defaults, an optional YAML file and PAGELENS_* environment variables, in
// ascending precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// LLM provider identifiers accepted in llm.provider.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config is the root of the application configuration.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Browser BrowserConfig `mapstructure:"browser" yaml:"browser"`
	Tagging TaggingConfig `mapstructure:"tagging" yaml:"tagging"`
	LLM     LLMConfig     `mapstructure:"llm" yaml:"llm"`
}

// LoggerConfig controls the zap logger and its file rotation.
type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"` // console or json
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	MaxSizeMB  int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// BrowserConfig controls the driver sessions.
type BrowserConfig struct {
	Headless       bool          `mapstructure:"headless" yaml:"headless"`
	UserAgent      string        `mapstructure:"user_agent" yaml:"user_agent"`
	ViewportWidth  int           `mapstructure:"viewport_width" yaml:"viewport_width"`
	ViewportHeight int           `mapstructure:"viewport_height" yaml:"viewport_height"`
	ActionTimeout  time.Duration `mapstructure:"action_timeout" yaml:"action_timeout"`
	// SnapshotConcurrency bounds parallel one-shot captures.
	SnapshotConcurrency int `mapstructure:"snapshot_concurrency" yaml:"snapshot_concurrency"`
}

// TaggingConfig carries the action tagging knobs. The numeric defaults were
// tuned empirically and are deliberately configuration, not code.
type TaggingConfig struct {
	Coverage         float64  `mapstructure:"coverage" yaml:"coverage"`
	MinTrials        int      `mapstructure:"min_trials" yaml:"min_trials"`
	NodesPerTrial    int      `mapstructure:"nodes_per_trial" yaml:"nodes_per_trial"`
	MaxActions       int      `mapstructure:"max_actions" yaml:"max_actions"`
	ExcludedRoles    []string `mapstructure:"excluded_roles" yaml:"excluded_roles"`
	ClassifyCategory bool     `mapstructure:"classify_category" yaml:"classify_category"`
}

// LLMConfig selects and tunes the model provider.
type LLMConfig struct {
	Provider          string        `mapstructure:"provider" yaml:"provider"`
	APIKey            string        `mapstructure:"api_key" yaml:"api_key"`
	Endpoint          string        `mapstructure:"endpoint" yaml:"endpoint"`
	FastModel         string        `mapstructure:"fast_model" yaml:"fast_model"`
	PowerfulModel     string        `mapstructure:"powerful_model" yaml:"powerful_model"`
	Temperature       float64       `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens         int           `mapstructure:"max_tokens" yaml:"max_tokens"`
	APITimeout        time.Duration `mapstructure:"api_timeout" yaml:"api_timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	// RetryMaxElapsed bounds the exponential backoff around provider calls.
	RetryMaxElapsed time.Duration `mapstructure:"retry_max_elapsed" yaml:"retry_max_elapsed"`
}

// Load reads the configuration. An explicit path must exist; otherwise the
// usual locations (cwd, ~/.pagelens) are searched and missing files are fine.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PAGELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("pagelens")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".pagelens"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewDefault returns the configuration with every default applied and no
// file or environment input.
func NewDefault() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("default config does not unmarshal: %v", err))
	}
	return &cfg
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.Tagging.Coverage <= 0 || c.Tagging.Coverage > 1 {
		return fmt.Errorf("tagging.coverage must be in (0, 1], got %v", c.Tagging.Coverage)
	}
	if c.Tagging.MinTrials < 1 {
		return fmt.Errorf("tagging.min_trials must be at least 1, got %d", c.Tagging.MinTrials)
	}
	if c.Tagging.NodesPerTrial < 1 {
		return fmt.Errorf("tagging.nodes_per_trial must be at least 1, got %d", c.Tagging.NodesPerTrial)
	}
	if c.Tagging.MaxActions < 1 {
		return fmt.Errorf("tagging.max_actions must be at least 1, got %d", c.Tagging.MaxActions)
	}
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("llm.provider must be %q or %q, got %q", ProviderGemini, ProviderOpenAI, c.LLM.Provider)
	}
	if c.Browser.SnapshotConcurrency < 1 {
		return fmt.Errorf("browser.snapshot_concurrency must be at least 1, got %d", c.Browser.SnapshotConcurrency)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Browser --
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.user_agent", "")
	v.SetDefault("browser.viewport_width", 1280)
	v.SetDefault("browser.viewport_height", 1080)
	v.SetDefault("browser.action_timeout", "10s")
	v.SetDefault("browser.snapshot_concurrency", 4)

	// -- Tagging --
	v.SetDefault("tagging.coverage", 0.95)
	v.SetDefault("tagging.min_trials", 3)
	v.SetDefault("tagging.nodes_per_trial", 50)
	v.SetDefault("tagging.max_actions", 100)
	v.SetDefault("tagging.excluded_roles", []string{"image", "figure"})
	v.SetDefault("tagging.classify_category", true)

	// -- LLM --
	v.SetDefault("llm.provider", ProviderGemini)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.endpoint", "")
	v.SetDefault("llm.fast_model", "gemini-2.0-flash")
	v.SetDefault("llm.powerful_model", "gemini-2.5-pro")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.max_tokens", 8192)
	v.SetDefault("llm.api_timeout", "90s")
	v.SetDefault("llm.requests_per_minute", 60)
	v.SetDefault("llm.retry_max_elapsed", "2m")
}
