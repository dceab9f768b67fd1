package entity

import (
	"testing"
	"time"
)

func TestSeverityRankOrdering(t *testing.T) {
	ordered := []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
	for i := 1; i < len(ordered); i++ {
		lo, hi := ordered[i-1], ordered[i]
		if SeverityRank(lo) >= SeverityRank(hi) {
			t.Fatalf("expected rank(%s) < rank(%s)", lo, hi)
		}
	}
	if SeverityRank("bogus") != 0 {
		t.Fatalf("expected rank 0 for unknown severity, got %d", SeverityRank("bogus"))
	}
}

func TestParseSeverity(t *testing.T) {
	cases := []struct {
		in   string
		want Severity
	}{
		{"critical", SeverityCritical},
		{"high", SeverityHigh},
		{"medium", SeverityMedium},
		{"low", SeverityLow},
		{"", SeverityLow},
		{"CRITICAL", SeverityLow},
		{"warning", SeverityLow},
	}
	for _, tc := range cases {
		if got := ParseSeverity(tc.in); got != tc.want {
			t.Fatalf("ParseSeverity(%q): expected %s, got %s", tc.in, tc.want, got)
		}
	}
}

func TestStageValid(t *testing.T) {
	for _, s := range AllStages() {
		if !s.Valid() {
			t.Fatalf("expected stage %s to be valid", s)
		}
	}
	for _, s := range []Stage{"", "style", "Security"} {
		if s.Valid() {
			t.Fatalf("expected stage %q to be invalid", s)
		}
	}
}

func TestAllStagesOrder(t *testing.T) {
	want := []Stage{StageSecurity, StageBugs, StageQuality, StagePerformance, StageTests, StageTargetBranch}
	got := AllStages()
	if len(got) != len(want) {
		t.Fatalf("expected %d stages, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("stage %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestJobStatusTerminal(t *testing.T) {
	cases := []struct {
		status JobStatus
		want   bool
	}{
		{StatusQueued, false},
		{StatusRunning, false},
		{StatusCompleted, true},
		{StatusFailed, true},
	}
	for _, tc := range cases {
		if got := tc.status.Terminal(); got != tc.want {
			t.Fatalf("%s.Terminal(): expected %v, got %v", tc.status, tc.want, got)
		}
	}
}

func TestStageEnabled(t *testing.T) {
	job := &ReviewJob{
		EnabledStages: map[Stage]bool{
			StageSecurity: true,
			StageBugs:     false,
			// target_branch in the map must be ignored
			StageTargetBranch: true,
		},
		CompareTargetBranch: false,
	}

	if !job.StageEnabled(StageSecurity) {
		t.Fatal("expected security to be enabled")
	}
	if job.StageEnabled(StageBugs) {
		t.Fatal("expected bugs to be disabled")
	}
	if job.StageEnabled(StageQuality) {
		t.Fatal("expected absent stage to be disabled")
	}
	if job.StageEnabled(StageTargetBranch) {
		t.Fatal("expected target_branch to follow the comparison flag, not the stage map")
	}

	job.CompareTargetBranch = true
	if !job.StageEnabled(StageTargetBranch) {
		t.Fatal("expected target_branch to be enabled via the comparison flag")
	}
}

func TestEnabledCount(t *testing.T) {
	job := &ReviewJob{
		EnabledStages: map[Stage]bool{
			StageSecurity:    true,
			StageBugs:        true,
			StageQuality:     false,
			StagePerformance: false,
			StageTests:       true,
		},
	}
	if got := job.EnabledCount(); got != 3 {
		t.Fatalf("expected 3 enabled stages, got %d", got)
	}
}

func TestReviewJobCloneIsDeep(t *testing.T) {
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	job := &ReviewJob{
		ID:            "job-1",
		EnabledStages: map[Stage]bool{StageSecurity: true},
		Status:        StatusRunning,
		StartedAt:     &started,
		Result: &ReviewReport{
			Overall: OverallReady,
			Stages: []StageResult{
				{Stage: StageSecurity, Status: StageSuccess, Findings: []Finding{{ID: "f-1", Severity: SeverityHigh}}},
			},
		},
	}

	cp := job.Clone()

	job.EnabledStages[StageBugs] = true
	*job.StartedAt = started.Add(time.Hour)
	job.Result.Overall = OverallAttention
	job.Result.Stages[0].Findings[0].Severity = SeverityLow

	if cp.EnabledStages[StageBugs] {
		t.Fatal("clone shares the enabled-stages map")
	}
	if !cp.StartedAt.Equal(started) {
		t.Fatalf("clone shares the started-at pointer: got %v", cp.StartedAt)
	}
	if cp.Result.Overall != OverallReady {
		t.Fatalf("clone shares the report: got overall %s", cp.Result.Overall)
	}
	if cp.Result.Stages[0].Findings[0].Severity != SeverityHigh {
		t.Fatal("clone shares stage findings")
	}
}

func TestReviewJobCloneNil(t *testing.T) {
	var job *ReviewJob
	if job.Clone() != nil {
		t.Fatal("expected nil clone of nil job")
	}
}

func TestReviewReportCloneIsDeep(t *testing.T) {
	rep := &ReviewReport{
		Categories:       []CategoryReport{{Stage: StageSecurity, FindingCount: 1}},
		CriticalFindings: []Finding{{ID: "f-1", Severity: SeverityCritical}},
		Stages: []StageResult{
			{Stage: StageSecurity, Findings: []Finding{{ID: "f-1"}}},
		},
	}

	cp := rep.Clone()

	rep.Categories[0].FindingCount = 9
	rep.CriticalFindings[0].ID = "changed"
	rep.Stages[0].Findings[0].ID = "changed"

	if cp.Categories[0].FindingCount != 1 {
		t.Fatal("clone shares the categories slice")
	}
	if cp.CriticalFindings[0].ID != "f-1" {
		t.Fatal("clone shares the critical findings slice")
	}
	if cp.Stages[0].Findings[0].ID != "f-1" {
		t.Fatal("clone shares per-stage findings")
	}
}

func TestSeverityTotalsSum(t *testing.T) {
	totals := SeverityTotals{Critical: 1, High: 2, Medium: 3, Low: 4}
	if got := totals.Sum(); got != 10 {
		t.Fatalf("expected sum 10, got %d", got)
	}
}
