// Package redisstore persists review jobs as JSON values in Redis.
// Terminal jobs get a TTL so retention needs no sweeper.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"code-review-service/internal/entity"
)

const keyPrefix = "review:job:"

type Store struct {
	rdb       *redis.Client
	retention time.Duration
}

func NewStore(rdb *redis.Client, retention time.Duration) *Store {
	return &Store{rdb: rdb, retention: retention}
}

func jobKey(id string) string { return keyPrefix + id }

// ttlFor keeps live jobs unexpiring and puts terminal jobs on the
// retention clock.
func (s *Store) ttlFor(job *entity.ReviewJob) time.Duration {
	if s.retention > 0 && job.Status.Terminal() {
		return s.retention
	}
	return 0
}

func (s *Store) Save(ctx context.Context, job *entity.ReviewJob) error {
	if job == nil || job.ID == "" {
		return entity.ErrInvalidRequest
	}
	doc, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job %s: %w", job.ID, err)
	}
	return s.rdb.Set(ctx, jobKey(job.ID), doc, s.ttlFor(job)).Err()
}

func (s *Store) Get(ctx context.Context, id string) (*entity.ReviewJob, error) {
	doc, err := s.rdb.Get(ctx, jobKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
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
	ok, err := s.rdb.SetXX(ctx, jobKey(job.ID), doc, s.ttlFor(job)).Result()
	if err != nil {
		return err
	}
	if !ok {
		return entity.ErrNotFound
	}
	return nil
}
