package entity

// OverallStatus is the headline verdict derived from a completed review.
type OverallStatus string

const (
	OverallReady       OverallStatus = "ready"
	OverallRecommended OverallStatus = "review_recommended"
	OverallAttention   OverallStatus = "needs_attention"
)

// CategoryReport summarizes one stage for dashboard consumption.
type CategoryReport struct {
	Stage        Stage       `json:"stage"`
	Status       StageStatus `json:"status"`
	FindingCount int         `json:"finding_count"`
	// Severity is the dominant (highest-ranked) severity present in the
	// category; empty when the category has no findings.
	Severity   Severity `json:"severity,omitempty"`
	Assessment string   `json:"assessment"`
}

// SeverityTotals holds finding counts by severity across all stages.
type SeverityTotals struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Sum returns the total number of findings across all severities.
func (t SeverityTotals) Sum() int {
	return t.Critical + t.High + t.Medium + t.Low
}

// ReviewReport is the aggregated cross-stage view of a completed job. It is
// derived purely from the job's stage results and recomputed, never patched.
type ReviewReport struct {
	Overall          OverallStatus    `json:"overall_status"`
	Categories       []CategoryReport `json:"categories"`
	CriticalFindings []Finding        `json:"critical_findings"`
	Totals           SeverityTotals   `json:"severity_totals"`
	TotalFindings    int              `json:"total_findings"`
	Stages           []StageResult    `json:"stages"`
}

// Clone returns a deep copy of the report.
func (r *ReviewReport) Clone() *ReviewReport {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Categories = append([]CategoryReport(nil), r.Categories...)
	cp.CriticalFindings = append([]Finding(nil), r.CriticalFindings...)
	cp.Stages = make([]StageResult, len(r.Stages))
	for i, sr := range r.Stages {
		sr.Findings = append([]Finding(nil), sr.Findings...)
		cp.Stages[i] = sr
	}
	return &cp
}
