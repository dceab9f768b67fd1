package entity

import (
	"time"
)

type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
)

// Terminal reports whether the status is final. Terminal jobs are immutable.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// ReviewJob is one end-to-end asynchronous review run over a submitted change.
// A job is created by Submit and from then on mutated only by the single
// pipeline run that owns it; everyone else reads snapshots through the store.
type ReviewJob struct {
	ID                  string         `json:"id"`
	RepoRef             string         `json:"repo_ref"`
	ChangeRef           string         `json:"change_ref"`
	EnabledStages       map[Stage]bool `json:"enabled_stages"`
	CompareTargetBranch bool           `json:"compare_target_branch"`

	Status       JobStatus     `json:"status"`
	Progress     float64       `json:"progress"`
	CurrentStage string        `json:"current_stage,omitempty"`
	Result       *ReviewReport `json:"result,omitempty"`
	Error        string        `json:"error,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// EnabledCount returns how many analysis stages the caller requested.
func (j *ReviewJob) EnabledCount() int {
	n := 0
	for _, on := range j.EnabledStages {
		if on {
			n++
		}
	}
	return n
}

// StageEnabled reports whether a stage should execute for this job.
// The target-branch comparison is driven by its own flag rather than
// the enabled-stages set.
func (j *ReviewJob) StageEnabled(s Stage) bool {
	if s == StageTargetBranch {
		return j.CompareTargetBranch
	}
	return j.EnabledStages[s]
}

// Clone returns a deep copy safe to hand to concurrent readers.
func (j *ReviewJob) Clone() *ReviewJob {
	if j == nil {
		return nil
	}
	cp := *j
	if j.EnabledStages != nil {
		cp.EnabledStages = make(map[Stage]bool, len(j.EnabledStages))
		for k, v := range j.EnabledStages {
			cp.EnabledStages[k] = v
		}
	}
	if j.StartedAt != nil {
		t := *j.StartedAt
		cp.StartedAt = &t
	}
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		cp.CompletedAt = &t
	}
	if j.Result != nil {
		cp.Result = j.Result.Clone()
	}
	return &cp
}
