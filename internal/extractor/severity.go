package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"code-review-service/internal/entity"
)

// glyphSeverities maps the colored-circle markers models like to emit. The
// scan order matters: when a block carries several glyphs the most severe
// one wins.
var glyphSeverities = []struct {
	glyph    string
	severity entity.Severity
}{
	{"\U0001F534", entity.SeverityCritical}, // red circle
	{"\U0001F7E0", entity.SeverityHigh},     // orange circle
	{"\U0001F7E1", entity.SeverityMedium},   // yellow circle
	{"\U0001F7E2", entity.SeverityLow},      // green circle
}

// detectSeverity classifies one block of text. Glyphs beat words; among
// words, "critical" beats "high priority" beats "medium"; anything else is
// low.
func detectSeverity(text string) entity.Severity {
	for _, g := range glyphSeverities {
		if strings.Contains(text, g.glyph) {
			return g.severity
		}
	}
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "critical"):
		return entity.SeverityCritical
	case strings.Contains(lower, "high priority"):
		return entity.SeverityHigh
	case strings.Contains(lower, "medium"):
		return entity.SeverityMedium
	default:
		return entity.SeverityLow
	}
}

var (
	// path.ext:123, optionally backtick-quoted
	fileLineRe = regexp.MustCompile("`?([A-Za-z0-9_./\\-]+\\.[A-Za-z]{1,6}):(\\d+)`?")
	// "File: internal/foo/bar.go" or "in file cmd/main.go"
	fileRe = regexp.MustCompile("(?i)\\bfile:?\\s+`?([A-Za-z0-9_./\\-]+\\.[A-Za-z]{1,6})`?")
	// "Line: 42", "line 42"
	lineRe = regexp.MustCompile(`(?i)\bline:?\s+(\d+)\b`)
	// "Suggestion: ...", "Fix: ...", "Recommendation: ..." to end of block
	suggestionRe = regexp.MustCompile(`(?is)\b(?:suggestion|fix|recommendation)\s*:\s*(\S.*)`)
)

// findLocation pulls a best-effort file/line reference out of a block.
// "path.ext:123" wins over separate "File:"/"Line:" annotations.
func findLocation(text string) (file string, line int, ok bool) {
	if m := fileLineRe.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[2])
		if err == nil {
			return m[1], n, true
		}
	}
	if m := fileRe.FindStringSubmatch(text); m != nil {
		file = m[1]
	}
	if m := lineRe.FindStringSubmatch(text); m != nil {
		line, _ = strconv.Atoi(m[1])
	}
	return file, line, file != "" || line > 0
}

// findSuggestion returns the text after a suggestion-style label, if any.
func findSuggestion(text string) string {
	m := suggestionRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
