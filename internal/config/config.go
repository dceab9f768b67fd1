// Package config defines the service configuration, loaded through viper
// from file, environment, and defaults.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config is the complete service configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Store    StoreConfig    `mapstructure:"store"`
	Provider ProviderConfig `mapstructure:"provider"`
	SCM      SCMConfig      `mapstructure:"scm"`
	Review   ReviewConfig   `mapstructure:"review"`
	Report   ReportConfig   `mapstructure:"report"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// ReadTimeoutSeconds bounds reading the request, WriteTimeoutSeconds the
	// full response write.
	ReadTimeoutSeconds     int `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds    int `mapstructure:"write_timeout_seconds"`
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds"`
}

// StoreConfig selects and configures the job store backend.
type StoreConfig struct {
	// Backend is one of "memory", "postgres", "redis".
	Backend     string `mapstructure:"backend"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
	RedisAddr   string `mapstructure:"redis_addr"`
	RedisDB     int    `mapstructure:"redis_db"`
	// RetentionMinutes is how long terminal jobs stay readable before the
	// store evicts them (0 keeps them forever).
	RetentionMinutes int `mapstructure:"retention_minutes"`
}

// ProviderConfig configures the AI completion provider used for analysis.
type ProviderConfig struct {
	// Kind is one of "anthropic", "openai", "ollama".
	Kind           string `mapstructure:"kind"`
	Model          string `mapstructure:"model"`
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	MaxTokens      int    `mapstructure:"max_tokens"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	MaxRetries     int    `mapstructure:"max_retries"`
	// RedactSecrets scrubs token-looking strings from diffs before they are
	// sent to the provider.
	RedactSecrets bool `mapstructure:"redact_secrets"`
}

// SCMConfig configures the source-hosting client used for context fetch.
type SCMConfig struct {
	// Kind currently supports only "github".
	Kind           string `mapstructure:"kind"`
	Token          string `mapstructure:"token"`
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// ReviewConfig controls job execution.
type ReviewConfig struct {
	// MaxConcurrent is the number of review jobs allowed to run at once;
	// submissions beyond it wait in queued state.
	MaxConcurrent       int `mapstructure:"max_concurrent"`
	StageTimeoutSeconds int `mapstructure:"stage_timeout_seconds"`
	JobTimeoutSeconds   int `mapstructure:"job_timeout_seconds"`
	// FetchRetries is the bounded retry count for the fatal context-fetch
	// step. Analysis stages are never retried.
	FetchRetries int `mapstructure:"fetch_retries"`
}

// ReportConfig carries the overall-verdict thresholds.
type ReportConfig struct {
	AttentionThreshold int `mapstructure:"attention_threshold"`
	RecommendThreshold int `mapstructure:"recommend_threshold"`
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Default returns a Config with all default values applied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                   "",
			Port:                   8080,
			ReadTimeoutSeconds:     10,
			WriteTimeoutSeconds:    30,
			ShutdownTimeoutSeconds: 10,
		},
		Store: StoreConfig{
			Backend:          "memory",
			RetentionMinutes: 60,
		},
		Provider: ProviderConfig{
			Kind:           "anthropic",
			Model:          "claude-sonnet-4-20250514",
			MaxTokens:      4096,
			TimeoutSeconds: 120,
			MaxRetries:     3,
			RedactSecrets:  true,
		},
		SCM: SCMConfig{
			Kind:           "github",
			BaseURL:        "https://api.github.com",
			TimeoutSeconds: 30,
		},
		Review: ReviewConfig{
			MaxConcurrent:       4,
			StageTimeoutSeconds: 120,
			JobTimeoutSeconds:   900,
			FetchRetries:        2,
		},
		Report: ReportConfig{
			AttentionThreshold: 10,
			RecommendThreshold: 3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// SetDefaults registers default values with viper.
func SetDefaults() {
	d := Default()

	viper.SetDefault("server.host", d.Server.Host)
	viper.SetDefault("server.port", d.Server.Port)
	viper.SetDefault("server.read_timeout_seconds", d.Server.ReadTimeoutSeconds)
	viper.SetDefault("server.write_timeout_seconds", d.Server.WriteTimeoutSeconds)
	viper.SetDefault("server.shutdown_timeout_seconds", d.Server.ShutdownTimeoutSeconds)

	viper.SetDefault("store.backend", d.Store.Backend)
	viper.SetDefault("store.postgres_dsn", d.Store.PostgresDSN)
	viper.SetDefault("store.redis_addr", d.Store.RedisAddr)
	viper.SetDefault("store.redis_db", d.Store.RedisDB)
	viper.SetDefault("store.retention_minutes", d.Store.RetentionMinutes)

	viper.SetDefault("provider.kind", d.Provider.Kind)
	viper.SetDefault("provider.model", d.Provider.Model)
	viper.SetDefault("provider.api_key", d.Provider.APIKey)
	viper.SetDefault("provider.base_url", d.Provider.BaseURL)
	viper.SetDefault("provider.max_tokens", d.Provider.MaxTokens)
	viper.SetDefault("provider.timeout_seconds", d.Provider.TimeoutSeconds)
	viper.SetDefault("provider.max_retries", d.Provider.MaxRetries)
	viper.SetDefault("provider.redact_secrets", d.Provider.RedactSecrets)

	viper.SetDefault("scm.kind", d.SCM.Kind)
	viper.SetDefault("scm.token", d.SCM.Token)
	viper.SetDefault("scm.base_url", d.SCM.BaseURL)
	viper.SetDefault("scm.timeout_seconds", d.SCM.TimeoutSeconds)

	viper.SetDefault("review.max_concurrent", d.Review.MaxConcurrent)
	viper.SetDefault("review.stage_timeout_seconds", d.Review.StageTimeoutSeconds)
	viper.SetDefault("review.job_timeout_seconds", d.Review.JobTimeoutSeconds)
	viper.SetDefault("review.fetch_retries", d.Review.FetchRetries)

	viper.SetDefault("report.attention_threshold", d.Report.AttentionThreshold)
	viper.SetDefault("report.recommend_threshold", d.Report.RecommendThreshold)

	viper.SetDefault("logging.level", d.Logging.Level)
	viper.SetDefault("logging.format", d.Logging.Format)
}

// Load reads the configuration from viper and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}
	return &cfg, nil
}

func (c *ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

func (c *ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

func (c *ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// Retention returns the terminal-job retention as a duration (0 = keep).
func (c *StoreConfig) Retention() time.Duration {
	return time.Duration(c.RetentionMinutes) * time.Minute
}

func (c *ProviderConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *SCMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *ReviewConfig) StageTimeout() time.Duration {
	return time.Duration(c.StageTimeoutSeconds) * time.Second
}

func (c *ReviewConfig) JobTimeout() time.Duration {
	return time.Duration(c.JobTimeoutSeconds) * time.Second
}
