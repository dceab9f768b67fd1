// Package extractor normalizes raw stage output into canonical findings.
//
// A stage's output is either a structured payload that already carries a
// findings array, or free text with no guaranteed schema. For free text the
// extractor runs a priority-ordered pattern cascade (see patterns.go); the
// first pattern that matches anywhere in the document wins and is used to
// split the whole document. Downstream counts and severities depend on the
// exact precedence, so changes here must be pinned by tests.
//
// Extraction is total: malformed input degrades to a single low-severity
// finding or to zero findings, never to an error. The only error case is an
// empty stage name.
package extractor

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"code-review-service/internal/entity"
	"code-review-service/internal/logging"
)

// fallbackMinLength is the minimum document length for the whole-text
// fallback: shorter unmatched text yields zero findings instead of one.
const fallbackMinLength = 100

// Extractor turns one stage's raw output into a StageResult. The zero value
// is not usable; construct with New.
type Extractor struct {
	log *slog.Logger
}

// New returns an Extractor. A nil logger disables the parse-degradation
// diagnostics but never changes extraction results.
func New(log *slog.Logger) *Extractor {
	if log == nil {
		log = logging.Nop()
	}
	return &Extractor{log: log}
}

// Extract converts out into the canonical StageResult for stage. It never
// fails on malformed content; it only rejects an empty stage name.
func (e *Extractor) Extract(stage entity.Stage, out entity.StageOutput) (entity.StageResult, error) {
	if strings.TrimSpace(string(stage)) == "" {
		return entity.StageResult{}, errors.New("extractor: stage name is required")
	}

	start := time.Now()
	var res entity.StageResult
	switch out.Kind {
	case entity.OutputStructured:
		res = e.fromStructured(stage, out.Findings)
	default:
		// Raw text may still be a JSON findings payload (models often answer
		// in JSON even when asked for prose). Try that before the cascade so
		// the caller never has to pre-classify.
		if raws, ok := decodeStructured(out.Text); ok {
			res = e.fromStructured(stage, raws)
		} else {
			res = e.fromText(stage, out.Text)
		}
	}
	res.DurationMS = time.Since(start).Milliseconds()
	return res, nil
}

// fromStructured normalizes an already-parsed findings payload.
func (e *Extractor) fromStructured(stage entity.Stage, raws []entity.RawFinding) entity.StageResult {
	findings := make([]entity.Finding, 0, len(raws))
	for i, r := range raws {
		title := strings.TrimSpace(r.Title)
		desc := strings.TrimSpace(r.Description)
		if title == "" {
			title = firstLine(desc)
		}
		if title == "" && desc == "" {
			// nothing usable in this entry
			continue
		}
		if desc == "" {
			desc = title
		}
		findings = append(findings, entity.Finding{
			ID:          fingerprint(stage, i, title),
			Severity:    entity.ParseSeverity(strings.ToLower(strings.TrimSpace(r.Severity))),
			Title:       title,
			Description: desc,
			File:        strings.TrimSpace(r.File),
			Line:        r.Line,
			Suggestion:  strings.TrimSpace(r.Suggestion),
		})
	}
	return entity.StageResult{
		Stage:    stage,
		Status:   entity.StageSuccess,
		Findings: findings,
	}
}

// fromText applies the pattern cascade to unstructured text.
func (e *Extractor) fromText(stage entity.Stage, text string) entity.StageResult {
	trimmed := strings.TrimSpace(text)
	res := entity.StageResult{
		Stage:    stage,
		Status:   entity.StageSuccess,
		Findings: []entity.Finding{},
	}
	if trimmed == "" {
		return res
	}

	// Priority 1: a no-issues sentinel anywhere in the document means a clean
	// result, regardless of any list-looking lines around it.
	if hasNoIssuesSentinel(trimmed) {
		res.Summary = capText(trimmed, summaryMaxLen)
		return res
	}

	for _, pat := range blockPatterns {
		blocks, preamble := pat.split(trimmed)
		if len(blocks) == 0 {
			continue
		}
		findings := make([]entity.Finding, 0, len(blocks))
		for i, b := range blocks {
			f, ok := e.blockFinding(stage, i, pat, b)
			if !ok {
				continue
			}
			findings = append(findings, f)
		}
		// The split count is expected to equal the match count; a mismatch
		// (e.g. whitespace-only blocks) is logged and the actual result kept,
		// so findings never silently disappear.
		if len(findings) != len(blocks) {
			e.log.Warn("parse degraded: block count mismatch",
				"stage", stage,
				"pattern", pat.name,
				"expected", len(blocks),
				"actual", len(findings),
			)
		}
		res.Findings = findings
		res.Summary = capText(preamble, summaryMaxLen)
		return res
	}

	// Fallback: no pattern matched. Long enough text becomes one finding;
	// short text is treated as having nothing to report.
	if len(trimmed) >= fallbackMinLength {
		e.log.Warn("parse degraded: no pattern matched, using whole text",
			"stage", stage,
			"length", len(trimmed),
		)
		title := capText(firstLine(trimmed), titleMaxLen)
		res.Findings = append(res.Findings, entity.Finding{
			ID:          fingerprint(stage, 0, title),
			Severity:    detectSeverity(trimmed),
			Title:       title,
			Description: trimmed,
			Suggestion:  findSuggestion(trimmed),
		})
		if file, line, ok := findLocation(trimmed); ok {
			res.Findings[0].File = file
			res.Findings[0].Line = line
		}
	}
	return res
}

// blockFinding builds one finding from a split block. Returns ok=false for
// blocks with no usable content.
func (e *Extractor) blockFinding(stage entity.Stage, index int, pat blockPattern, b block) (entity.Finding, bool) {
	content := strings.TrimSpace(b.content)
	if content == "" {
		return entity.Finding{}, false
	}

	title := cleanTitle(firstLine(content))
	if title == "" {
		title = capText(content, titleMaxLen)
	}
	f := entity.Finding{
		ID:          fingerprint(stage, index, title),
		Severity:    detectSeverity(b.full),
		Title:       capText(title, titleMaxLen),
		Description: content,
		Suggestion:  findSuggestion(content),
	}
	if file, line, ok := findLocation(b.full); ok {
		f.File = file
		f.Line = line
	}
	return f, true
}

// decodeStructured tries to read text as a JSON findings payload: either a
// bare array of findings or an object with a "findings" array. Markdown code
// fences around the JSON are tolerated.
func decodeStructured(text string) ([]entity.RawFinding, bool) {
	content := stripFences(strings.TrimSpace(text))
	if content == "" {
		return nil, false
	}

	switch content[0] {
	case '[':
		var raws []entity.RawFinding
		if err := json.Unmarshal([]byte(content), &raws); err == nil {
			return raws, true
		}
	case '{':
		var payload struct {
			Findings *[]entity.RawFinding `json:"findings"`
		}
		if err := json.Unmarshal([]byte(content), &payload); err == nil && payload.Findings != nil {
			return *payload.Findings, true
		}
	}
	return nil, false
}

// stripFences removes a surrounding markdown code fence, if present.
func stripFences(content string) string {
	if !strings.HasPrefix(content, "```") {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return content
	}
	end := len(lines)
	if strings.TrimSpace(lines[end-1]) == "```" {
		end--
	}
	return strings.TrimSpace(strings.Join(lines[1:end], "\n"))
}

// fingerprint derives a stable finding id, unique within its stage result.
func fingerprint(stage entity.Stage, index int, title string) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%s", stage, index, title)))
	return fmt.Sprintf("%x", h[:8])
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}
