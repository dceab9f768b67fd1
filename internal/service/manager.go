// Package service coordinates review jobs: submission, status lookup,
// cancellation, and the bound on how many reviews run at once.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"code-review-service/internal/entity"
	"code-review-service/internal/logging"
)

// JobStore is the persistence port shared by the manager and the pipeline.
// Implementations: repository/memory, repository/postgresql,
// repository/redisstore.
type JobStore interface {
	Save(ctx context.Context, job *entity.ReviewJob) error
	Get(ctx context.Context, id string) (*entity.ReviewJob, error)
	Update(ctx context.Context, job *entity.ReviewJob) error
}

// Runner executes one review to a terminal state. Implementation:
// pipeline.Runner.
type Runner interface {
	Run(ctx context.Context, job *entity.ReviewJob) error
}

type Manager struct {
	store  JobStore
	runner Runner
	log    *slog.Logger

	sem chan struct{} // bounds concurrent pipeline runs

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
	wg      sync.WaitGroup
}

func NewManager(store JobStore, runner Runner, maxConcurrent int, log *slog.Logger) *Manager {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Manager{
		store:   store,
		runner:  runner,
		log:     log,
		sem:     make(chan struct{}, maxConcurrent),
		cancels: make(map[string]context.CancelFunc),
	}
}

// SubmitRequest describes one review to start.
type SubmitRequest struct {
	RepoRef             string
	ChangeRef           string
	EnabledStages       map[entity.Stage]bool
	CompareTargetBranch bool
}

func (r SubmitRequest) enabledCount() int {
	n := 0
	for _, on := range r.EnabledStages {
		if on {
			n++
		}
	}
	if r.CompareTargetBranch {
		n++
	}
	return n
}

// Submit validates the request, persists a queued job and starts its
// pipeline run, returning the new job id immediately. Every call creates a
// fresh job; there is no idempotency key.
func (m *Manager) Submit(ctx context.Context, req SubmitRequest) (string, error) {
	if strings.TrimSpace(req.RepoRef) == "" {
		return "", fmt.Errorf("%w: repo_ref is required", entity.ErrInvalidRequest)
	}
	if strings.TrimSpace(req.ChangeRef) == "" {
		return "", fmt.Errorf("%w: change_ref is required", entity.ErrInvalidRequest)
	}
	for s := range req.EnabledStages {
		if !s.Valid() {
			return "", fmt.Errorf("%w: unknown stage %q", entity.ErrInvalidRequest, s)
		}
	}
	if req.enabledCount() == 0 {
		return "", fmt.Errorf("%w: at least one stage must be enabled", entity.ErrInvalidRequest)
	}

	enabled := make(map[entity.Stage]bool, len(req.EnabledStages))
	for s, on := range req.EnabledStages {
		enabled[s] = on
	}

	job := &entity.ReviewJob{
		ID:                  uuid.NewString(),
		RepoRef:             strings.TrimSpace(req.RepoRef),
		ChangeRef:           strings.TrimSpace(req.ChangeRef),
		EnabledStages:       enabled,
		CompareTargetBranch: req.CompareTargetBranch,
		Status:              entity.StatusQueued,
		CreatedAt:           time.Now(),
	}
	if err := m.store.Save(ctx, job); err != nil {
		return "", fmt.Errorf("persist job: %w", err)
	}

	// The run must outlive the submitting request, so its context derives
	// from the manager, not from ctx.
	runCtx, cancel := context.WithCancel(context.Background())
	m.mu.Lock()
	m.cancels[job.ID] = cancel
	m.mu.Unlock()

	m.wg.Add(1)
	go m.run(runCtx, job)

	m.log.Info("job submitted", "job_id", job.ID, "repo", job.RepoRef,
		"change", job.ChangeRef, "stages", job.EnabledCount(),
		"target_branch", job.CompareTargetBranch)
	return job.ID, nil
}

// run waits for a concurrency slot and drives the pipeline. Exactly one run
// exists per job id for its whole lifetime.
func (m *Manager) run(ctx context.Context, job *entity.ReviewJob) {
	defer m.wg.Done()
	defer m.release(job.ID)

	select {
	case m.sem <- struct{}{}:
	case <-ctx.Done():
		m.abortQueued(job)
		return
	}
	defer func() { <-m.sem }()

	if err := m.runner.Run(ctx, job); err != nil {
		m.log.Warn("job finished with failure", "job_id", job.ID, "error", err)
	}
}

// abortQueued marks a job that was cancelled before its run ever started.
func (m *Manager) abortQueued(job *entity.ReviewJob) {
	job.Status = entity.StatusFailed
	job.Error = "review cancelled"
	now := time.Now()
	job.CompletedAt = &now
	if err := m.store.Update(context.Background(), job); err != nil {
		m.log.Warn("store update failed", "job_id", job.ID, "error", err)
	}
	m.log.Info("queued job cancelled", "job_id", job.ID)
}

func (m *Manager) release(id string) {
	m.mu.Lock()
	if cancel, ok := m.cancels[id]; ok {
		cancel()
		delete(m.cancels, id)
	}
	m.mu.Unlock()
}

// GetStatus returns a snapshot of the job, entity.ErrNotFound if the id is
// unknown or already evicted.
func (m *Manager) GetStatus(ctx context.Context, id string) (*entity.ReviewJob, error) {
	return m.store.Get(ctx, id)
}

// Cancel signals the job's run to stop at the next stage boundary. The
// terminal state is written by the run itself, so callers should keep
// polling GetStatus.
func (m *Manager) Cancel(ctx context.Context, id string) error {
	m.mu.Lock()
	cancel, ok := m.cancels[id]
	m.mu.Unlock()
	if ok {
		cancel()
		m.log.Info("job cancellation requested", "job_id", id)
		return nil
	}

	job, err := m.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if job.Status.Terminal() {
		return fmt.Errorf("%w: job already in terminal state", entity.ErrInvalidRequest)
	}
	return fmt.Errorf("%w: job has no active run", entity.ErrInvalidRequest)
}

// Close cancels every active run and waits for them to wind down or for ctx
// to expire.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	for _, cancel := range m.cancels {
		cancel()
	}
	m.mu.Unlock()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
