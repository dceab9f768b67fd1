package scm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseRepoRef(t *testing.T) {
	tests := []struct {
		in        string
		owner     string
		repo      string
		expectErr bool
	}{
		{"acme/widgets", "acme", "widgets", false},
		{"  acme/widgets  ", "acme", "widgets", false},
		{"acme", "", "", true},
		{"/widgets", "", "", true},
		{"acme/", "", "", true},
		{"acme/group/widgets", "", "", true},
		{"", "", "", true},
	}
	for _, tt := range tests {
		owner, repo, err := ParseRepoRef(tt.in)
		if tt.expectErr {
			if err == nil {
				t.Fatalf("%q: expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.in, err)
		}
		if owner != tt.owner || repo != tt.repo {
			t.Fatalf("%q: expected %s/%s, got %s/%s", tt.in, tt.owner, tt.repo, owner, repo)
		}
	}
}

func TestParseChangeRef(t *testing.T) {
	tests := []struct {
		in        string
		want      int
		expectErr bool
	}{
		{"42", 42, false},
		{"#42", 42, false},
		{"!42", 42, false},
		{" 7 ", 7, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		n, err := ParseChangeRef(tt.in)
		if tt.expectErr {
			if err == nil {
				t.Fatalf("%q: expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.in, err)
		}
		if n != tt.want {
			t.Fatalf("%q: expected %d, got %d", tt.in, tt.want, n)
		}
	}
}

func TestNewGitHubClientRequiresToken(t *testing.T) {
	if _, err := NewGitHubClient("", "", 0); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/pulls/7", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if strings.Contains(r.Header.Get("Accept"), "diff") {
			w.Write([]byte("diff --git a/main.go b/main.go\n+added line\n"))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"title": "Fix pagination",
			"body": "Adjusts the offset math.",
			"state": "open",
			"user": {"login": "octocat"},
			"head": {"ref": "fix/pagination"},
			"base": {"ref": "main"},
			"additions": 12,
			"deletions": 4
		}`))
	})
	mux.HandleFunc("/repos/acme/widgets/pulls/7/files", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"filename": "main.go"}, {"filename": "main_test.go"}]`))
	})
	return httptest.NewServer(mux)
}

func TestFetchChangeContext(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	cli, err := NewGitHubClient("test-token", srv.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewGitHubClient: %v", err)
	}
	cc, err := cli.FetchChangeContext(context.Background(), "acme/widgets", "#7")
	if err != nil {
		t.Fatalf("FetchChangeContext: %v", err)
	}

	if cc.Ref() != "acme/widgets#7" {
		t.Fatalf("unexpected ref: %s", cc.Ref())
	}
	if cc.Title != "Fix pagination" || cc.Author != "octocat" {
		t.Fatalf("metadata not composed: %+v", cc)
	}
	if cc.SourceBranch != "fix/pagination" || cc.TargetBranch != "main" {
		t.Fatalf("branches not composed: %+v", cc)
	}
	if !strings.Contains(cc.Diff, "diff --git") {
		t.Fatalf("diff missing: %q", cc.Diff)
	}
	if len(cc.ChangedFiles) != 2 || cc.ChangedFiles[0] != "main.go" {
		t.Fatalf("changed files not composed: %v", cc.ChangedFiles)
	}
	if cc.Additions != 12 || cc.Deletions != 4 {
		t.Fatalf("counters not composed: %+v", cc)
	}
}

func TestFetchChangeContextNotFound(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	cli, _ := NewGitHubClient("test-token", srv.URL, 5*time.Second)
	_, err := cli.FetchChangeContext(context.Background(), "acme/widgets", "99")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestFetchChangeContextAuthFailure(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	cli, _ := NewGitHubClient("wrong-token", srv.URL, 5*time.Second)
	_, err := cli.FetchChangeContext(context.Background(), "acme/widgets", "7")
	if err == nil || !strings.Contains(err.Error(), "authentication failed") {
		t.Fatalf("expected auth error, got %v", err)
	}
}

func TestFetchChangeContextBadRefs(t *testing.T) {
	cli, _ := NewGitHubClient("test-token", "http://127.0.0.1:0", time.Second)
	if _, err := cli.FetchChangeContext(context.Background(), "not-a-ref", "7"); err == nil {
		t.Fatal("expected error for bad repo ref")
	}
	if _, err := cli.FetchChangeContext(context.Background(), "acme/widgets", "seven"); err == nil {
		t.Fatal("expected error for bad change ref")
	}
}
