package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"code-review-service/internal/entity"
	"code-review-service/internal/scm"
)

// ---- fakes ----

type fakeProvider struct {
	lastReq  CompletionRequest
	response CompletionResponse
	err      error
	calls    int
}

func (f *fakeProvider) Complete(_ context.Context, req CompletionRequest) (CompletionResponse, error) {
	f.calls++
	f.lastReq = req
	return f.response, f.err
}

func (f *fakeProvider) Name() string { return "fake" }

func testContext() *scm.ChangeContext {
	return &scm.ChangeContext{
		RepoOwner:    "acme",
		RepoName:     "widgets",
		Number:       7,
		Title:        "Fix pagination",
		Author:       "octocat",
		SourceBranch: "fix/pagination",
		TargetBranch: "main",
		Diff:         "diff --git a/main.go b/main.go\n+offset := page * size\n",
		ChangedFiles: []string{"main.go"},
	}
}

// ---- tests ----

func TestAnalyzeStage(t *testing.T) {
	p := &fakeProvider{response: CompletionResponse{Content: "1. Something odd", TokensUsed: 10}}
	a := New(p, 2048, false, nil)

	out, err := a.AnalyzeStage(context.Background(), entity.StageBugs, testContext())
	if err != nil {
		t.Fatalf("AnalyzeStage: %v", err)
	}
	if out.Kind != entity.OutputRaw || out.Text != "1. Something odd" {
		t.Fatalf("unexpected output: %+v", out)
	}
	if p.lastReq.MaxTokens != 2048 {
		t.Fatalf("max tokens not forwarded: %d", p.lastReq.MaxTokens)
	}
	if !strings.Contains(p.lastReq.SystemPrompt, "functional defects") {
		t.Fatalf("stage focus missing from system prompt: %q", p.lastReq.SystemPrompt)
	}
	if !strings.Contains(p.lastReq.UserPrompt, "acme/widgets#7") {
		t.Fatalf("change ref missing from user prompt")
	}
}

func TestAnalyzeStageProviderError(t *testing.T) {
	p := &fakeProvider{err: errors.New("boom")}
	a := New(p, 0, false, nil)

	_, err := a.AnalyzeStage(context.Background(), entity.StageSecurity, testContext())
	if err == nil || !strings.Contains(err.Error(), "security analysis") {
		t.Fatalf("expected wrapped stage error, got %v", err)
	}
}

func TestAnalyzeStageEmptyContent(t *testing.T) {
	p := &fakeProvider{response: CompletionResponse{Content: "   \n"}}
	a := New(p, 0, false, nil)

	_, err := a.AnalyzeStage(context.Background(), entity.StageQuality, testContext())
	if err == nil || !strings.Contains(err.Error(), "empty content") {
		t.Fatalf("expected empty content error, got %v", err)
	}
}

func TestAnalyzeStageNilContext(t *testing.T) {
	a := New(&fakeProvider{}, 0, false, nil)
	if _, err := a.AnalyzeStage(context.Background(), entity.StageBugs, nil); err == nil {
		t.Fatal("expected error for nil change context")
	}
}

func TestAnalyzeStageRedactsSecrets(t *testing.T) {
	cc := testContext()
	cc.Diff = "+const key = \"sk-ant-REDACTED\"\n"

	p := &fakeProvider{response: CompletionResponse{Content: "No issues found"}}
	a := New(p, 0, true, nil)

	if _, err := a.AnalyzeStage(context.Background(), entity.StageSecurity, cc); err != nil {
		t.Fatalf("AnalyzeStage: %v", err)
	}
	if strings.Contains(p.lastReq.UserPrompt, "sk-ant-") {
		t.Fatal("secret leaked into the prompt")
	}
	if !strings.Contains(p.lastReq.UserPrompt, "[REDACTED]") {
		t.Fatal("expected redaction placeholder in prompt")
	}
}

func TestNewProviderUnknownKind(t *testing.T) {
	if _, err := NewProvider(Options{Kind: "crystal-ball"}); err == nil {
		t.Fatal("expected error for unknown provider kind")
	}
}

func TestNewProviderKinds(t *testing.T) {
	tests := []struct {
		kind    string
		apiKey  string
		wantErr bool
	}{
		{"anthropic", "k", false},
		{"anthropic", "", true},
		{"openai", "k", false},
		{"openai", "", true},
		{"ollama", "", false},
	}
	for _, tt := range tests {
		p, err := NewProvider(Options{Kind: tt.kind, Model: "m", APIKey: tt.apiKey})
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%s without key: expected error", tt.kind)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.kind, err)
		}
		if p.Name() != tt.kind {
			t.Fatalf("expected name %s, got %s", tt.kind, p.Name())
		}
	}
}
