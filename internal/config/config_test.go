package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestDefaultIsValid(t *testing.T) {
	if errs := Default().Validate(); len(errs) > 0 {
		t.Fatalf("default config must validate, got: %v", ValidationErrors(errs))
	}
}

func TestLoadUsesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Store.Backend != "memory" {
		t.Fatalf("expected memory backend, got %q", cfg.Store.Backend)
	}
	if cfg.Report.AttentionThreshold != 10 || cfg.Report.RecommendThreshold != 3 {
		t.Fatalf("unexpected thresholds: %+v", cfg.Report)
	}
}

func TestLoadOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()
	viper.Set("review.max_concurrent", 2)
	viper.Set("provider.kind", "ollama")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Review.MaxConcurrent != 2 {
		t.Fatalf("override lost: %d", cfg.Review.MaxConcurrent)
	}
	if cfg.Provider.Kind != "ollama" {
		t.Fatalf("override lost: %q", cfg.Provider.Kind)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()
	viper.Set("server.port", 0)

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for port 0")
	}
}

func TestValidateFindsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = -1
	cfg.Store.Backend = "etcd"
	cfg.Provider.Kind = "bard"
	cfg.Review.MaxConcurrent = 0

	errs := cfg.Validate()
	if len(errs) != 4 {
		t.Fatalf("expected 4 errors, got %d: %v", len(errs), ValidationErrors(errs))
	}
}

func TestValidateBackendRequirements(t *testing.T) {
	cfg := Default()
	cfg.Store.Backend = "postgres"
	if errs := cfg.Validate(); len(errs) != 1 || errs[0].Field != "store.postgres_dsn" {
		t.Fatalf("expected missing dsn error, got %v", errs)
	}

	cfg = Default()
	cfg.Store.Backend = "redis"
	if errs := cfg.Validate(); len(errs) != 1 || errs[0].Field != "store.redis_addr" {
		t.Fatalf("expected missing addr error, got %v", errs)
	}
}

func TestValidateThresholdOrdering(t *testing.T) {
	cfg := Default()
	cfg.Report.RecommendThreshold = 10
	cfg.Report.AttentionThreshold = 10
	if errs := cfg.Validate(); len(errs) != 1 || errs[0].Field != "report.recommend_threshold" {
		t.Fatalf("expected threshold ordering error, got %v", errs)
	}
}

func TestDurationHelpers(t *testing.T) {
	cfg := Default()
	if cfg.Review.StageTimeout() != 120*time.Second {
		t.Fatalf("unexpected stage timeout: %v", cfg.Review.StageTimeout())
	}
	if cfg.Review.JobTimeout() != 900*time.Second {
		t.Fatalf("unexpected job timeout: %v", cfg.Review.JobTimeout())
	}
	if cfg.Store.Retention() != time.Hour {
		t.Fatalf("unexpected retention: %v", cfg.Store.Retention())
	}
	if cfg.Server.ShutdownTimeout() != 10*time.Second {
		t.Fatalf("unexpected shutdown timeout: %v", cfg.Server.ShutdownTimeout())
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "a.b", Value: 1, Message: "bad"},
		{Field: "c.d", Value: "x", Message: "worse"},
	}
	msg := errs.Error()
	if msg == "" {
		t.Fatal("expected a message")
	}
	if ValidationErrors(nil).Error() != "" {
		t.Fatal("empty set must render empty string")
	}
}
