package report

import (
	"testing"

	"code-review-service/internal/entity"
)

func finding(sev entity.Severity, title string) entity.Finding {
	return entity.Finding{ID: title, Severity: sev, Title: title, Description: title}
}

func TestAggregateEmpty(t *testing.T) {
	rep := Aggregate(nil, Thresholds{})
	if rep.Overall != entity.OverallReady {
		t.Fatalf("expected ready, got %s", rep.Overall)
	}
	if rep.TotalFindings != 0 || rep.Totals.Sum() != 0 {
		t.Fatalf("expected zero totals, got %+v", rep.Totals)
	}
	if rep.Categories == nil || rep.CriticalFindings == nil {
		t.Fatal("slices must be non-nil for JSON rendering")
	}
}

func TestAggregateCleanStage(t *testing.T) {
	results := []entity.StageResult{
		{Stage: entity.StageSecurity, Status: entity.StageSuccess, Findings: []entity.Finding{}},
	}
	rep := Aggregate(results, Thresholds{})
	if len(rep.Categories) != 1 {
		t.Fatalf("expected 1 category, got %d", len(rep.Categories))
	}
	cat := rep.Categories[0]
	if cat.FindingCount != 0 {
		t.Fatalf("expected 0 findings, got %d", cat.FindingCount)
	}
	if cat.Severity != "" {
		t.Fatalf("expected no dominant severity, got %s", cat.Severity)
	}
	if cat.Assessment != "quality standard met" {
		t.Fatalf("unexpected assessment: %q", cat.Assessment)
	}
	if rep.Overall != entity.OverallReady {
		t.Fatalf("expected ready, got %s", rep.Overall)
	}
}

func TestAggregateAssessments(t *testing.T) {
	results := []entity.StageResult{
		{Stage: entity.StageSecurity, Status: entity.StageSuccess, Findings: []entity.Finding{
			finding(entity.SeverityCritical, "sql injection"),
		}},
		{Stage: entity.StageBugs, Status: entity.StageSuccess, Findings: []entity.Finding{
			finding(entity.SeverityMedium, "off by one"),
		}},
		{Stage: entity.StageQuality, Status: entity.StageSkipped},
		{Stage: entity.StagePerformance, Status: entity.StageError, ErrorMessage: "model call failed"},
	}
	rep := Aggregate(results, Thresholds{})

	want := map[entity.Stage]string{
		entity.StageSecurity:    "critical issues found",
		entity.StageBugs:        "issues found",
		entity.StageQuality:     "not analyzed",
		entity.StagePerformance: "analysis failed",
	}
	for _, cat := range rep.Categories {
		if cat.Assessment != want[cat.Stage] {
			t.Fatalf("%s: expected %q, got %q", cat.Stage, want[cat.Stage], cat.Assessment)
		}
	}
	if rep.Categories[0].Severity != entity.SeverityCritical {
		t.Fatalf("expected dominant critical, got %s", rep.Categories[0].Severity)
	}
}

func TestAggregateCriticalListSortedAndFiltered(t *testing.T) {
	results := []entity.StageResult{
		{Stage: entity.StageSecurity, Status: entity.StageSuccess, Findings: []entity.Finding{
			finding(entity.SeverityHigh, "h1"),
			finding(entity.SeverityLow, "l1"),
		}},
		{Stage: entity.StageBugs, Status: entity.StageSuccess, Findings: []entity.Finding{
			finding(entity.SeverityCritical, "c1"),
			finding(entity.SeverityMedium, "m1"),
			finding(entity.SeverityHigh, "h2"),
		}},
	}
	rep := Aggregate(results, Thresholds{})
	got := make([]string, 0, len(rep.CriticalFindings))
	for _, f := range rep.CriticalFindings {
		got = append(got, f.Title)
	}
	want := []string{"c1", "h1", "h2"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
	if rep.Totals != (entity.SeverityTotals{Critical: 1, High: 2, Medium: 1, Low: 1}) {
		t.Fatalf("unexpected totals: %+v", rep.Totals)
	}
}

func TestAggregateOverallThresholds(t *testing.T) {
	lows := func(n int) []entity.Finding {
		fs := make([]entity.Finding, n)
		for i := range fs {
			fs[i] = finding(entity.SeverityLow, "nit")
		}
		return fs
	}
	tests := []struct {
		name string
		res  []entity.StageResult
		th   Thresholds
		want entity.OverallStatus
	}{
		{
			name: "critical forces attention",
			res: []entity.StageResult{{Stage: entity.StageSecurity, Status: entity.StageSuccess,
				Findings: []entity.Finding{finding(entity.SeverityCritical, "c")}}},
			th:   Thresholds{Attention: 100, Recommend: 50},
			want: entity.OverallAttention,
		},
		{
			name: "high forces attention",
			res: []entity.StageResult{{Stage: entity.StageBugs, Status: entity.StageSuccess,
				Findings: []entity.Finding{finding(entity.SeverityHigh, "h")}}},
			th:   Thresholds{Attention: 100, Recommend: 50},
			want: entity.OverallAttention,
		},
		{
			name: "count above attention threshold",
			res: []entity.StageResult{{Stage: entity.StageQuality, Status: entity.StageSuccess,
				Findings: lows(11)}},
			th:   Thresholds{Attention: 10, Recommend: 3},
			want: entity.OverallAttention,
		},
		{
			name: "count above recommend threshold",
			res: []entity.StageResult{{Stage: entity.StageQuality, Status: entity.StageSuccess,
				Findings: lows(4)}},
			th:   Thresholds{Attention: 10, Recommend: 3},
			want: entity.OverallRecommended,
		},
		{
			name: "count at recommend threshold stays ready",
			res: []entity.StageResult{{Stage: entity.StageQuality, Status: entity.StageSuccess,
				Findings: lows(3)}},
			th:   Thresholds{Attention: 10, Recommend: 3},
			want: entity.OverallReady,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep := Aggregate(tt.res, tt.th)
			if rep.Overall != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, rep.Overall)
			}
		})
	}
}

func TestAggregateAllStagesErrored(t *testing.T) {
	// A report must still be usable when every stage failed.
	results := []entity.StageResult{
		{Stage: entity.StageSecurity, Status: entity.StageError, ErrorMessage: "timeout"},
		{Stage: entity.StageBugs, Status: entity.StageError, ErrorMessage: "timeout"},
	}
	rep := Aggregate(results, Thresholds{})
	if rep.Overall != entity.OverallReady {
		t.Fatalf("expected ready (no findings), got %s", rep.Overall)
	}
	if len(rep.Stages) != 2 || len(rep.Categories) != 2 {
		t.Fatalf("expected 2 stages and categories, got %d/%d", len(rep.Stages), len(rep.Categories))
	}
}
