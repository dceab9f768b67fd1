// Package scm fetches the change context (diff plus metadata) for a
// submitted merge request from the hosting provider.
package scm

import (
	"fmt"
	"strconv"
	"strings"
)

// ChangeContext is everything the analysis stages need about one change.
type ChangeContext struct {
	RepoOwner    string
	RepoName     string
	Number       int
	Title        string
	Description  string
	Author       string
	SourceBranch string
	TargetBranch string
	State        string
	Diff         string
	ChangedFiles []string
	Additions    int
	Deletions    int
}

// Ref returns the canonical owner/repo#number form for logs.
func (c *ChangeContext) Ref() string {
	return fmt.Sprintf("%s/%s#%d", c.RepoOwner, c.RepoName, c.Number)
}

// ParseRepoRef splits an "owner/repo" reference.
func ParseRepoRef(repoRef string) (owner, repo string, err error) {
	owner, repo, ok := strings.Cut(strings.TrimSpace(repoRef), "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("repo ref must look like owner/repo, got %q", repoRef)
	}
	return owner, repo, nil
}

// ParseChangeRef converts a change reference ("42", "#42", "!42") to the
// pull request number.
func ParseChangeRef(changeRef string) (int, error) {
	s := strings.TrimSpace(changeRef)
	s = strings.TrimPrefix(s, "#")
	s = strings.TrimPrefix(s, "!")
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("change ref must be a positive change number, got %q", changeRef)
	}
	return n, nil
}
