package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError is a single invalid config value.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors aggregates every failure found in one Validate pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:\n", len(e))
	for i, err := range e {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// ValidStoreBackends returns the supported job store backends.
func ValidStoreBackends() []string {
	return []string{"memory", "postgres", "redis"}
}

// ValidProviderKinds returns the supported AI providers.
func ValidProviderKinds() []string {
	return []string{"anthropic", "openai", "ollama"}
}

// ValidLogLevels returns the accepted logging levels.
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config and returns every violation found.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError
	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validateStore()...)
	errs = append(errs, c.validateProvider()...)
	errs = append(errs, c.validateSCM()...)
	errs = append(errs, c.validateReview()...)
	errs = append(errs, c.validateReport()...)
	errs = append(errs, c.validateLogging()...)
	return errs
}

func (c *Config) validateServer() []ValidationError {
	var errs []ValidationError
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, ValidationError{
			Field:   "server.port",
			Value:   c.Server.Port,
			Message: "must be between 1 and 65535",
		})
	}
	if c.Server.ReadTimeoutSeconds <= 0 {
		errs = append(errs, ValidationError{
			Field:   "server.read_timeout_seconds",
			Value:   c.Server.ReadTimeoutSeconds,
			Message: "must be positive",
		})
	}
	if c.Server.WriteTimeoutSeconds <= 0 {
		errs = append(errs, ValidationError{
			Field:   "server.write_timeout_seconds",
			Value:   c.Server.WriteTimeoutSeconds,
			Message: "must be positive",
		})
	}
	if c.Server.ShutdownTimeoutSeconds <= 0 {
		errs = append(errs, ValidationError{
			Field:   "server.shutdown_timeout_seconds",
			Value:   c.Server.ShutdownTimeoutSeconds,
			Message: "must be positive",
		})
	}
	return errs
}

func (c *Config) validateStore() []ValidationError {
	var errs []ValidationError
	if !slices.Contains(ValidStoreBackends(), c.Store.Backend) {
		errs = append(errs, ValidationError{
			Field:   "store.backend",
			Value:   c.Store.Backend,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidStoreBackends(), ", ")),
		})
	}
	if c.Store.Backend == "postgres" && c.Store.PostgresDSN == "" {
		errs = append(errs, ValidationError{
			Field:   "store.postgres_dsn",
			Value:   c.Store.PostgresDSN,
			Message: "required when store.backend is postgres",
		})
	}
	if c.Store.Backend == "redis" && c.Store.RedisAddr == "" {
		errs = append(errs, ValidationError{
			Field:   "store.redis_addr",
			Value:   c.Store.RedisAddr,
			Message: "required when store.backend is redis",
		})
	}
	if c.Store.RetentionMinutes < 0 {
		errs = append(errs, ValidationError{
			Field:   "store.retention_minutes",
			Value:   c.Store.RetentionMinutes,
			Message: "must be non-negative (0 keeps jobs forever)",
		})
	}
	return errs
}

func (c *Config) validateProvider() []ValidationError {
	var errs []ValidationError
	if !slices.Contains(ValidProviderKinds(), c.Provider.Kind) {
		errs = append(errs, ValidationError{
			Field:   "provider.kind",
			Value:   c.Provider.Kind,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidProviderKinds(), ", ")),
		})
	}
	if c.Provider.Model == "" {
		errs = append(errs, ValidationError{
			Field:   "provider.model",
			Value:   c.Provider.Model,
			Message: "cannot be empty",
		})
	}
	if c.Provider.MaxTokens <= 0 {
		errs = append(errs, ValidationError{
			Field:   "provider.max_tokens",
			Value:   c.Provider.MaxTokens,
			Message: "must be positive",
		})
	}
	if c.Provider.TimeoutSeconds <= 0 {
		errs = append(errs, ValidationError{
			Field:   "provider.timeout_seconds",
			Value:   c.Provider.TimeoutSeconds,
			Message: "must be positive",
		})
	}
	if c.Provider.MaxRetries < 0 {
		errs = append(errs, ValidationError{
			Field:   "provider.max_retries",
			Value:   c.Provider.MaxRetries,
			Message: "must be non-negative",
		})
	}
	return errs
}

func (c *Config) validateSCM() []ValidationError {
	var errs []ValidationError
	if c.SCM.Kind != "github" {
		errs = append(errs, ValidationError{
			Field:   "scm.kind",
			Value:   c.SCM.Kind,
			Message: "must be 'github'",
		})
	}
	if c.SCM.TimeoutSeconds <= 0 {
		errs = append(errs, ValidationError{
			Field:   "scm.timeout_seconds",
			Value:   c.SCM.TimeoutSeconds,
			Message: "must be positive",
		})
	}
	return errs
}

func (c *Config) validateReview() []ValidationError {
	var errs []ValidationError

	const maxConcurrentLimit = 64
	if c.Review.MaxConcurrent < 1 {
		errs = append(errs, ValidationError{
			Field:   "review.max_concurrent",
			Value:   c.Review.MaxConcurrent,
			Message: "must be at least 1",
		})
	}
	if c.Review.MaxConcurrent > maxConcurrentLimit {
		errs = append(errs, ValidationError{
			Field:   "review.max_concurrent",
			Value:   c.Review.MaxConcurrent,
			Message: fmt.Sprintf("exceeds maximum of %d", maxConcurrentLimit),
		})
	}
	if c.Review.StageTimeoutSeconds <= 0 {
		errs = append(errs, ValidationError{
			Field:   "review.stage_timeout_seconds",
			Value:   c.Review.StageTimeoutSeconds,
			Message: "must be positive",
		})
	}
	if c.Review.JobTimeoutSeconds <= 0 {
		errs = append(errs, ValidationError{
			Field:   "review.job_timeout_seconds",
			Value:   c.Review.JobTimeoutSeconds,
			Message: "must be positive",
		})
	}
	if c.Review.JobTimeoutSeconds < c.Review.StageTimeoutSeconds {
		errs = append(errs, ValidationError{
			Field:   "review.job_timeout_seconds",
			Value:   c.Review.JobTimeoutSeconds,
			Message: "must be at least review.stage_timeout_seconds",
		})
	}
	if c.Review.FetchRetries < 0 {
		errs = append(errs, ValidationError{
			Field:   "review.fetch_retries",
			Value:   c.Review.FetchRetries,
			Message: "must be non-negative",
		})
	}
	return errs
}

func (c *Config) validateReport() []ValidationError {
	var errs []ValidationError
	if c.Report.AttentionThreshold <= 0 {
		errs = append(errs, ValidationError{
			Field:   "report.attention_threshold",
			Value:   c.Report.AttentionThreshold,
			Message: "must be positive",
		})
	}
	if c.Report.RecommendThreshold <= 0 {
		errs = append(errs, ValidationError{
			Field:   "report.recommend_threshold",
			Value:   c.Report.RecommendThreshold,
			Message: "must be positive",
		})
	}
	if c.Report.RecommendThreshold >= c.Report.AttentionThreshold {
		errs = append(errs, ValidationError{
			Field:   "report.recommend_threshold",
			Value:   c.Report.RecommendThreshold,
			Message: fmt.Sprintf("must be less than report.attention_threshold (%d)", c.Report.AttentionThreshold),
		})
	}
	return errs
}

func (c *Config) validateLogging() []ValidationError {
	var errs []ValidationError
	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}
	if c.Logging.Format != "" && c.Logging.Format != "json" && c.Logging.Format != "text" {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Value:   c.Logging.Format,
			Message: "must be 'json' or 'text'",
		})
	}
	return errs
}
