package extractor

import (
	"regexp"
	"strings"
)

const (
	titleMaxLen   = 140
	summaryMaxLen = 280
)

// noIssuePhrases short-circuit the cascade: any of them anywhere in the
// document means the stage found nothing to report.
var noIssuePhrases = []string{
	"no issues found",
	"no issues detected",
	"no problems",
	"looks good",
	"no concerns",
}

func hasNoIssuesSentinel(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range noIssuePhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// block is one slice of the document produced by a pattern split. full keeps
// the marker (severity glyphs live there), content starts after it.
type block struct {
	full    string
	content string
}

// blockPattern splits a document at every line that starts with its marker.
type blockPattern struct {
	name string
	re   *regexp.Regexp
}

// blockPatterns is the cascade, in strict priority order. The first pattern
// with at least one match splits the whole document; later patterns are
// never consulted, even if they also match.
var blockPatterns = []blockPattern{
	{name: "numbered", re: regexp.MustCompile(`(?m)^[ \t]*\d+\.\s+`)},
	{name: "bullet", re: regexp.MustCompile(`(?m)^[ \t]*[-*\x{2022}]\s+`)},
	{name: "header", re: regexp.MustCompile(`(?m)^[ \t]*#{2,4}\s+`)},
	{name: "severity-glyph", re: regexp.MustCompile(`(?m)^[ \t]*(\x{1F534}|\x{1F7E0}|\x{1F7E1}|\x{1F7E2})`)},
	{name: "keyword", re: regexp.MustCompile(`(?mi)^[ \t]*(issue|problem|warning|error|bug|concern)\s*#?\d*\s*[:\-]`)},
}

// split cuts text at every match of the pattern. Each block runs from one
// match to the byte before the next; the last block runs to the end. Text
// before the first match is returned as the preamble.
func (p blockPattern) split(text string) ([]block, string) {
	locs := p.re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil, ""
	}
	blocks := make([]block, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		blocks = append(blocks, block{
			full:    text[loc[0]:end],
			content: text[loc[1]:end],
		})
	}
	return blocks, strings.TrimSpace(text[:locs[0][0]])
}

// cleanTitle strips list markup that survives inside a block's first line.
func cleanTitle(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*_`#")
	s = strings.TrimSpace(s)
	return strings.TrimSuffix(s, ":")
}

// capText truncates s to at most max runes, trimming a partial word edge.
func capText(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max]))
}
