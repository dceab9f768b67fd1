// Package postgresql persists review jobs as JSONB documents.
package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"code-review-service/internal/entity"
)

// The document column is the source of truth; the extracted columns exist
// for lookups and retention sweeps only.
const schema = `
CREATE TABLE IF NOT EXISTS review_jobs (
    id           TEXT PRIMARY KEY,
    status       TEXT NOT NULL,
    completed_at TIMESTAMPTZ,
    document     JSONB NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS review_jobs_status_completed_idx
    ON review_jobs (status, completed_at);
`

type Store struct {
	pool      *pgxpool.Pool
	retention time.Duration
}

func NewStore(pool *pgxpool.Pool, retention time.Duration) *Store {
	return &Store{pool: pool, retention: retention}
}

// Migrate creates the backing table when it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *Store) Save(ctx context.Context, job *entity.ReviewJob) error {
	if job == nil || job.ID == "" {
		return entity.ErrInvalidRequest
	}
	doc, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.ID, err)
	}

	const q = `
INSERT INTO review_jobs (id, status, completed_at, document, updated_at)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (id) DO UPDATE
SET status = EXCLUDED.status,
    completed_at = EXCLUDED.completed_at,
    document = EXCLUDED.document,
    updated_at = now();
`
	_, err = s.pool.Exec(ctx, q, job.ID, string(job.Status), job.CompletedAt, doc)
	return err
}

func (s *Store) Get(ctx context.Context, id string) (*entity.ReviewJob, error) {
	const q = `SELECT document FROM review_jobs WHERE id = $1;`

	var doc []byte
	if err := s.pool.QueryRow(ctx, q, id).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrNotFound
		}
		return nil, err
	}

	var job entity.ReviewJob
	if err := json.Unmarshal(doc, &job); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &job, nil
}

func (s *Store) Update(ctx context.Context, job *entity.ReviewJob) error {
	if job == nil || job.ID == "" {
		return entity.ErrInvalidRequest
	}
	doc, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.ID, err)
	}

	const q = `
UPDATE review_jobs
SET status = $2, completed_at = $3, document = $4, updated_at = now()
WHERE id = $1;
`
	tag, err := s.pool.Exec(ctx, q, job.ID, string(job.Status), job.CompletedAt, doc)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// EvictExpired deletes terminal jobs that finished before the retention
// window and reports how many rows were dropped.
func (s *Store) EvictExpired(ctx context.Context) (int, error) {
	if s.retention <= 0 {
		return 0, nil
	}
	cutoff := time.Now().Add(-s.retention)

	const q = `
DELETE FROM review_jobs
WHERE status IN ($1, $2)
  AND completed_at IS NOT NULL
  AND completed_at < $3;
`
	tag, err := s.pool.Exec(ctx, q, string(entity.StatusCompleted), string(entity.StatusFailed), cutoff)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
