// Package report folds per-stage results into the cross-stage review report.
package report

import (
	"sort"

	"code-review-service/internal/entity"
)

// Default thresholds for the overall verdict. Both count total findings:
// above Attention the change needs attention, above Recommend a closer look
// is recommended.
const (
	DefaultAttentionThreshold = 10
	DefaultRecommendThreshold = 3
)

// Thresholds control the overall verdict. Zero or negative values fall back
// to the package defaults so a zero Thresholds behaves sanely.
type Thresholds struct {
	Attention int
	Recommend int
}

func (t Thresholds) normalized() Thresholds {
	if t.Attention <= 0 {
		t.Attention = DefaultAttentionThreshold
	}
	if t.Recommend <= 0 {
		t.Recommend = DefaultRecommendThreshold
	}
	return t
}

// Aggregate derives the combined report from a job's stage results. It is
// pure and total: empty input yields an all-zero "ready" report, and the
// input slice is never mutated.
func Aggregate(results []entity.StageResult, th Thresholds) *entity.ReviewReport {
	th = th.normalized()

	rep := &entity.ReviewReport{
		Overall:          entity.OverallReady,
		Categories:       make([]entity.CategoryReport, 0, len(results)),
		CriticalFindings: []entity.Finding{},
		Stages:           make([]entity.StageResult, 0, len(results)),
	}

	for _, res := range results {
		rep.Stages = append(rep.Stages, res)
		rep.Categories = append(rep.Categories, categoryFor(res))
		rep.TotalFindings += len(res.Findings)
		for _, f := range res.Findings {
			switch f.Severity {
			case entity.SeverityCritical:
				rep.Totals.Critical++
			case entity.SeverityHigh:
				rep.Totals.High++
			case entity.SeverityMedium:
				rep.Totals.Medium++
			default:
				rep.Totals.Low++
			}
			if f.Severity == entity.SeverityCritical || f.Severity == entity.SeverityHigh {
				rep.CriticalFindings = append(rep.CriticalFindings, f)
			}
		}
	}

	// Critical before high; input order preserved within a severity.
	sort.SliceStable(rep.CriticalFindings, func(i, j int) bool {
		return entity.SeverityRank(rep.CriticalFindings[i].Severity) > entity.SeverityRank(rep.CriticalFindings[j].Severity)
	})

	switch {
	case len(rep.CriticalFindings) > 0 || rep.TotalFindings > th.Attention:
		rep.Overall = entity.OverallAttention
	case rep.TotalFindings > th.Recommend:
		rep.Overall = entity.OverallRecommended
	}
	return rep
}

func categoryFor(res entity.StageResult) entity.CategoryReport {
	cat := entity.CategoryReport{
		Stage:        res.Stage,
		Status:       res.Status,
		FindingCount: len(res.Findings),
	}
	switch res.Status {
	case entity.StageSkipped:
		cat.Assessment = "not analyzed"
	case entity.StageError:
		cat.Assessment = "analysis failed"
	default:
		cat.Severity = dominantSeverity(res.Findings)
		switch {
		case len(res.Findings) == 0:
			cat.Assessment = "quality standard met"
		case cat.Severity == entity.SeverityCritical:
			cat.Assessment = "critical issues found"
		default:
			cat.Assessment = "issues found"
		}
	}
	return cat
}

// dominantSeverity is the highest-ranked severity present, or "" for none.
func dominantSeverity(findings []entity.Finding) entity.Severity {
	var best entity.Severity
	for _, f := range findings {
		if entity.SeverityRank(f.Severity) > entity.SeverityRank(best) {
			best = f.Severity
		}
	}
	return best
}
