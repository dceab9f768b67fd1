package analyzer

import (
	"context"
	"net/http"
	"strings"
	"time"
)

const defaultOllamaURL = "http://localhost:11434"

// Ollama implements Provider for Ollama and LM Studio through their
// OpenAI-compatible chat endpoint. No API key is required by default.
type Ollama struct {
	apiKey     string
	model      string
	baseURL    string
	maxRetries int
	client     *http.Client
}

// NewOllama creates an Ollama provider.
func NewOllama(opts Options) (*Ollama, error) {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	// Accept host, host/v1, or the full endpoint.
	baseURL = strings.TrimRight(baseURL, "/")
	baseURL = strings.TrimSuffix(baseURL, "/v1/chat/completions")
	baseURL = strings.TrimSuffix(baseURL, "/v1")

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Ollama{
		apiKey:     opts.APIKey,
		model:      opts.Model,
		baseURL:    baseURL + "/v1/chat/completions",
		maxRetries: maxRetries,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

func (o *Ollama) Name() string { return "ollama" }

func (o *Ollama) Complete(ctx context.Context, req CompletionRequest) (CompletionResponse, error) {
	return completeChat(ctx, chatCall{
		client:     o.client,
		url:        o.baseURL,
		apiKey:     o.apiKey,
		model:      o.model,
		maxRetries: o.maxRetries,
	}, req)
}
