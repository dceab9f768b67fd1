// Package pipeline sequences the staged review for one job: fetch the change
// context, run each enabled analysis stage, normalize the output into typed
// findings, and aggregate the final report.
//
// A job is owned by exactly one Run for its whole lifetime. The runner is the
// only writer; everybody else observes snapshots through the job store.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"code-review-service/internal/entity"
	"code-review-service/internal/logging"
	"code-review-service/internal/report"
	"code-review-service/internal/scm"
)

// StepFetchContext is the current-stage label while the change's diff and
// metadata are being retrieved. It occupies the first progress slot.
const StepFetchContext = "fetch_context"

// fetchRetryDelay separates consecutive context-fetch attempts.
const fetchRetryDelay = 1 * time.Second

// ContextFetcher retrieves the change under review from the hosting provider.
type ContextFetcher interface {
	FetchChangeContext(ctx context.Context, repoRef, changeRef string) (*scm.ChangeContext, error)
}

// StageAnalyzer produces the raw output for one analysis stage.
type StageAnalyzer interface {
	AnalyzeStage(ctx context.Context, stage entity.Stage, cc *scm.ChangeContext) (entity.StageOutput, error)
}

// ResultExtractor normalizes raw stage output into a StageResult.
type ResultExtractor interface {
	Extract(stage entity.Stage, out entity.StageOutput) (entity.StageResult, error)
}

// JobStore receives job snapshots as the run progresses.
type JobStore interface {
	Update(ctx context.Context, job *entity.ReviewJob) error
}

type Options struct {
	// StageTimeout bounds each external call: the context fetch and every
	// per-stage completion.
	StageTimeout time.Duration
	// JobTimeout bounds the whole run, wall clock from start.
	JobTimeout time.Duration
	// FetchRetries is the number of extra context-fetch attempts before the
	// job is failed.
	FetchRetries int
	Thresholds   report.Thresholds
}

type Runner struct {
	fetcher   ContextFetcher
	analyzer  StageAnalyzer
	extractor ResultExtractor
	store     JobStore
	opts      Options
	log       *slog.Logger
}

func NewRunner(fetcher ContextFetcher, analyzer StageAnalyzer, extractor ResultExtractor, store JobStore, opts Options, log *slog.Logger) *Runner {
	if opts.StageTimeout <= 0 {
		opts.StageTimeout = 2 * time.Minute
	}
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = 15 * time.Minute
	}
	if opts.FetchRetries < 0 {
		opts.FetchRetries = 0
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Runner{
		fetcher:   fetcher,
		analyzer:  analyzer,
		extractor: extractor,
		store:     store,
		opts:      opts,
		log:       log,
	}
}

// Run executes the review to a terminal state and reports the failure cause,
// if any. Everything it learns is also recorded on the job itself, so callers
// typically just log the returned error.
//
// Progress is split into equal slots over a fixed step count (context fetch
// plus every known stage, enabled or not) so the percentage means the same
// thing regardless of the enabled set. Each slot is entered before its
// external call and completed right after, and skipped stages pass through
// their slot instantly.
func (r *Runner) Run(ctx context.Context, job *entity.ReviewJob) error {
	start := time.Now()
	log := r.log.With("job_id", job.ID, "repo", job.RepoRef, "change", job.ChangeRef)

	runCtx, cancel := context.WithTimeout(ctx, r.opts.JobTimeout)
	defer cancel()

	stages := entity.AllStages()
	weight := 100 / float64(1+len(stages))

	now := time.Now()
	job.Status = entity.StatusRunning
	job.StartedAt = &now
	job.CurrentStage = StepFetchContext
	r.persist(runCtx, job)
	log.Info("review started", "enabled_stages", job.EnabledCount(), "target_branch", job.CompareTargetBranch)

	cc, err := r.fetchContext(runCtx, log, job)
	if err != nil {
		return r.fail(ctx, log, job, err)
	}
	r.setProgress(job, weight)
	r.persist(runCtx, job)

	results := make([]entity.StageResult, 0, len(stages))
	for i, stage := range stages {
		if err := interrupted(runCtx); err != nil {
			return r.fail(ctx, log, job, err)
		}

		step := i + 1 // slot 0 belongs to the context fetch
		job.CurrentStage = string(stage)
		r.setProgress(job, float64(step)*weight)
		r.persist(runCtx, job)

		results = append(results, r.runStage(runCtx, log, stage, job, cc))

		r.setProgress(job, float64(step+1)*weight)
		r.persist(runCtx, job)
	}

	job.Result = report.Aggregate(results, r.opts.Thresholds)
	job.Status = entity.StatusCompleted
	job.CurrentStage = ""
	job.Progress = 100
	done := time.Now()
	job.CompletedAt = &done
	r.persist(context.WithoutCancel(ctx), job)

	log.Info("review completed",
		"overall", job.Result.Overall,
		"findings", job.Result.TotalFindings,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// fetchContext retries the change retrieval a bounded number of times.
// Without the diff no stage can run, so exhausting the budget is fatal
// to the job.
func (r *Runner) fetchContext(ctx context.Context, log *slog.Logger, job *entity.ReviewJob) (*scm.ChangeContext, error) {
	attempts := r.opts.FetchRetries + 1

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, interrupted(ctx)
			case <-time.After(fetchRetryDelay):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, r.opts.StageTimeout)
		cc, err := r.fetcher.FetchChangeContext(callCtx, job.RepoRef, job.ChangeRef)
		cancel()
		if err == nil {
			log.Info("change context fetched",
				"title", cc.Title,
				"files", len(cc.ChangedFiles),
				"additions", cc.Additions,
				"deletions", cc.Deletions,
			)
			return cc, nil
		}
		lastErr = err
		log.Warn("context fetch failed", "attempt", attempt, "attempts", attempts, "error", err)
	}
	return nil, fmt.Errorf("%w: fetch change context: %v", entity.ErrUpstreamFailure, lastErr)
}

// runStage executes one analysis stage under the per-stage timeout. Failures
// are absorbed into an error StageResult so one bad stage never aborts the
// review.
func (r *Runner) runStage(ctx context.Context, log *slog.Logger, stage entity.Stage, job *entity.ReviewJob, cc *scm.ChangeContext) entity.StageResult {
	if !job.StageEnabled(stage) {
		return entity.StageResult{
			Stage:    stage,
			Status:   entity.StageSkipped,
			Summary:  "stage not selected for this review",
			Findings: []entity.Finding{},
		}
	}

	start := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, r.opts.StageTimeout)
	out, err := r.analyzer.AnalyzeStage(callCtx, stage, cc)
	cancel()
	if err != nil {
		log.Warn("stage failed", "stage", stage, "error", err,
			"duration_ms", time.Since(start).Milliseconds())
		return entity.StageResult{
			Stage:        stage,
			Status:       entity.StageError,
			ErrorMessage: err.Error(),
			Findings:     []entity.Finding{},
			DurationMS:   time.Since(start).Milliseconds(),
		}
	}

	res, err := r.extractor.Extract(stage, out)
	if err != nil {
		log.Error("extract failed", "stage", stage, "error", err)
		return entity.StageResult{
			Stage:        stage,
			Status:       entity.StageError,
			ErrorMessage: err.Error(),
			Findings:     []entity.Finding{},
			DurationMS:   time.Since(start).Milliseconds(),
		}
	}
	res.DurationMS = time.Since(start).Milliseconds()
	log.Info("stage finished", "stage", stage, "status", res.Status,
		"findings", len(res.Findings), "duration_ms", res.DurationMS)
	return res
}

func (r *Runner) fail(ctx context.Context, log *slog.Logger, job *entity.ReviewJob, cause error) error {
	job.Status = entity.StatusFailed
	job.Error = cause.Error()
	job.CurrentStage = ""
	done := time.Now()
	job.CompletedAt = &done
	r.persist(context.WithoutCancel(ctx), job)

	log.Error("review failed", "error", cause, "progress", job.Progress)
	return cause
}

// setProgress never lets the reported progress decrease and caps it at 100.
func (r *Runner) setProgress(job *entity.ReviewJob, p float64) {
	if p > 100 {
		p = 100
	}
	if p > job.Progress {
		job.Progress = p
	}
}

// persist pushes a snapshot to the store. A failed snapshot write is logged
// and otherwise ignored: the run itself stays the source of truth.
func (r *Runner) persist(ctx context.Context, job *entity.ReviewJob) {
	if err := r.store.Update(ctx, job); err != nil {
		r.log.Warn("store update failed", "job_id", job.ID, "error", err)
	}
}

// interrupted reports why the run context ended, distinguishing the job
// timeout from cancellation. Stage calls are opaque I/O, so this is checked
// only at step boundaries.
func interrupted(ctx context.Context) error {
	select {
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return errors.New("review timed out")
		}
		return errors.New("review cancelled")
	default:
		return nil
	}
}
