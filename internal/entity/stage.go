package entity

// Stage is one analysis category of a review.
type Stage string

const (
	StageSecurity     Stage = "security"
	StageBugs         Stage = "bugs"
	StageQuality      Stage = "quality"
	StagePerformance  Stage = "performance"
	StageTests        Stage = "tests"
	StageTargetBranch Stage = "target_branch"
)

// AllStages returns every stage in fixed execution order. The order (and the
// count) is the same for every job so that progress percentages mean the same
// thing across runs with different enabled sets.
func AllStages() []Stage {
	return []Stage{
		StageSecurity,
		StageBugs,
		StageQuality,
		StagePerformance,
		StageTests,
		StageTargetBranch,
	}
}

// Valid reports whether s names a known stage.
func (s Stage) Valid() bool {
	switch s {
	case StageSecurity, StageBugs, StageQuality, StagePerformance, StageTests, StageTargetBranch:
		return true
	}
	return false
}

type StageStatus string

const (
	StageSuccess StageStatus = "success"
	StageSkipped StageStatus = "skipped"
	StageError   StageStatus = "error"
)

// StageResult is the outcome of one stage for one job run. It is written once
// by the pipeline run that produced it and never modified afterwards.
type StageResult struct {
	Stage        Stage       `json:"stage"`
	Status       StageStatus `json:"status"`
	Summary      string      `json:"summary,omitempty"`
	Findings     []Finding   `json:"findings"`
	ErrorMessage string      `json:"error_message,omitempty"`
	DurationMS   int64       `json:"duration_ms"`
}

// OutputKind tags the two shapes a stage's raw output can take.
type OutputKind string

const (
	// OutputRaw is unstructured text with no guaranteed schema.
	OutputRaw OutputKind = "raw"
	// OutputStructured is a payload that already carries a findings array.
	OutputStructured OutputKind = "structured"
)

// StageOutput is the tagged variant handed to the extractor: either free text
// or an already-structured findings payload.
type StageOutput struct {
	Kind     OutputKind
	Text     string       // set when Kind == OutputRaw
	Findings []RawFinding // set when Kind == OutputStructured
}

// RawOutput wraps unstructured stage text.
func RawOutput(text string) StageOutput {
	return StageOutput{Kind: OutputRaw, Text: text}
}

// StructuredOutput wraps an already-parsed findings payload.
func StructuredOutput(findings []RawFinding) StageOutput {
	return StageOutput{Kind: OutputStructured, Findings: findings}
}

// RawFinding is the loose finding shape produced by analysis backends that
// answer in JSON. Every field is optional; normalization fills the gaps.
type RawFinding struct {
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description"`
	File        string `json:"file"`
	Line        int    `json:"line"`
	Suggestion  string `json:"suggestion"`
}
