package scm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultAPIURL = "https://api.github.com"

// GitHubClient talks to the GitHub REST API.
type GitHubClient struct {
	token   string
	apiURL  string
	httpCli *http.Client
}

// NewGitHubClient builds a client for the given API endpoint. The token is
// required; baseURL falls back to the public API when empty.
func NewGitHubClient(token, baseURL string, timeout time.Duration) (*GitHubClient, error) {
	if token == "" {
		return nil, fmt.Errorf("github token is not set")
	}
	if baseURL == "" {
		baseURL = defaultAPIURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &GitHubClient{
		token:   token,
		apiURL:  strings.TrimRight(baseURL, "/"),
		httpCli: &http.Client{Timeout: timeout},
	}, nil
}

// FetchChangeContext retrieves the metadata, unified diff, and changed file
// list for one pull request and combines them into a ChangeContext.
func (c *GitHubClient) FetchChangeContext(ctx context.Context, repoRef, changeRef string) (*ChangeContext, error) {
	owner, repo, err := ParseRepoRef(repoRef)
	if err != nil {
		return nil, err
	}
	number, err := ParseChangeRef(changeRef)
	if err != nil {
		return nil, err
	}

	meta, err := c.getChangeInfo(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}
	diff, err := c.getChangeDiff(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}
	files, err := c.getChangedFiles(ctx, owner, repo, number)
	if err != nil {
		return nil, err
	}

	return &ChangeContext{
		RepoOwner:    owner,
		RepoName:     repo,
		Number:       number,
		Title:        meta.Title,
		Description:  meta.Body,
		Author:       meta.User.Login,
		SourceBranch: meta.Head.Ref,
		TargetBranch: meta.Base.Ref,
		State:        meta.State,
		Diff:         diff,
		ChangedFiles: files,
		Additions:    meta.Additions,
		Deletions:    meta.Deletions,
	}, nil
}

type changeInfo struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	State string `json:"state"`
	User  struct {
		Login string `json:"login"`
	} `json:"user"`
	Head struct {
		Ref string `json:"ref"`
	} `json:"head"`
	Base struct {
		Ref string `json:"ref"`
	} `json:"base"`
	Additions int `json:"additions"`
	Deletions int `json:"deletions"`
}

func (c *GitHubClient) getChangeInfo(ctx context.Context, owner, repo string, number int) (*changeInfo, error) {
	body, err := c.get(ctx, c.pullURL(owner, repo, number), "application/vnd.github.v3+json")
	if err != nil {
		return nil, err
	}
	var info changeInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("parsing pull request metadata: %w", err)
	}
	return &info, nil
}

func (c *GitHubClient) getChangeDiff(ctx context.Context, owner, repo string, number int) (string, error) {
	body, err := c.get(ctx, c.pullURL(owner, repo, number), "application/vnd.github.v3.diff")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *GitHubClient) getChangedFiles(ctx context.Context, owner, repo string, number int) ([]string, error) {
	body, err := c.get(ctx, c.pullURL(owner, repo, number)+"/files", "application/vnd.github.v3+json")
	if err != nil {
		return nil, err
	}
	var files []struct {
		Filename string `json:"filename"`
	}
	if err := json.Unmarshal(body, &files); err != nil {
		return nil, fmt.Errorf("parsing changed files: %w", err)
	}
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Filename
	}
	return names, nil
}

func (c *GitHubClient) pullURL(owner, repo string, number int) string {
	return fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.apiURL, owner, repo, number)
}

func (c *GitHubClient) get(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", accept)

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling github: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("change not found: %s", url)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("github authentication failed (status %d)", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("github API error (status %d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}
