// Package analyzer runs one AI completion per analysis stage and hands the
// raw output to the extractor untouched. Provider implementations share the
// completion abstraction so the orchestrator never knows which backend is
// configured.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"code-review-service/internal/entity"
	"code-review-service/internal/logging"
	"code-review-service/internal/redact"
	"code-review-service/internal/scm"
)

// CompletionRequest is the data sent to a provider for one stage.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	MaxTokens    int
	Temperature  float64
}

// CompletionResponse is the raw provider answer.
type CompletionResponse struct {
	Content    string
	TokensUsed int
}

// Provider is the completion backend abstraction.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error)
	Name() string
}

// Options configures a provider built by NewProvider.
type Options struct {
	Kind       string
	Model      string
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

// NewProvider creates a completion provider by kind.
func NewProvider(opts Options) (Provider, error) {
	switch opts.Kind {
	case "anthropic":
		return NewAnthropic(opts)
	case "openai":
		return NewOpenAI(opts)
	case "ollama":
		return NewOllama(opts)
	default:
		return nil, fmt.Errorf("unknown provider: %s", opts.Kind)
	}
}

// Analyzer runs stage analyses against one provider.
type Analyzer struct {
	provider  Provider
	maxTokens int
	redact    bool
	log       *slog.Logger
}

// New builds an Analyzer. redactSecrets scrubs token-looking strings from
// the prompt before it leaves the process.
func New(provider Provider, maxTokens int, redactSecrets bool, log *slog.Logger) *Analyzer {
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Analyzer{
		provider:  provider,
		maxTokens: maxTokens,
		redact:    redactSecrets,
		log:       log,
	}
}

// AnalyzeStage asks the provider to review the change for one stage and
// returns the raw output. The caller owns timeout and failure policy.
func (a *Analyzer) AnalyzeStage(ctx context.Context, stage entity.Stage, cc *scm.ChangeContext) (entity.StageOutput, error) {
	if cc == nil {
		return entity.StageOutput{}, fmt.Errorf("change context is required")
	}

	user := buildUserPrompt(stage, cc)
	if a.redact {
		user = redact.Secrets(user)
	}

	started := time.Now()
	resp, err := a.provider.Complete(ctx, CompletionRequest{
		SystemPrompt: systemPromptFor(stage),
		UserPrompt:   user,
		MaxTokens:    a.maxTokens,
	})
	if err != nil {
		return entity.StageOutput{}, fmt.Errorf("%s analysis: %w", stage, err)
	}
	if strings.TrimSpace(resp.Content) == "" {
		return entity.StageOutput{}, fmt.Errorf("%s analysis: provider returned empty content", stage)
	}

	a.log.Debug("stage analysis completed",
		"stage", stage,
		"provider", a.provider.Name(),
		"tokens", resp.TokensUsed,
		"elapsed", time.Since(started),
	)
	return entity.RawOutput(resp.Content), nil
}
