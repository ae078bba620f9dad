package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"kaliroot-admin/internal/features/broadcast/models"
	"kaliroot-admin/internal/features/broadcast/repository"
	"kaliroot-admin/internal/platform/redis"
)

type jobStore struct {
	client redis.RedisClient
	ttl    time.Duration
}

// NewJobStore keeps each job in a hash "broadcast:<id>" that expires ttl
// after its last write.
func NewJobStore(client redis.RedisClient, ttl time.Duration) repository.JobStore {
	return &jobStore{client: client, ttl: ttl}
}

func jobKey(id string) string {
	return fmt.Sprintf("broadcast:%s", id)
}

func (s *jobStore) touch(ctx context.Context, key string) error {
	if s.ttl <= 0 {
		return nil
	}
	return s.client.Expire(ctx, key, s.ttl).Err()
}

func (s *jobStore) Create(ctx context.Context, job *models.Job) error {
	key := jobKey(job.ID)
	err := s.client.HSet(ctx, key,
		"id", job.ID,
		"state", job.State,
		"segment", job.Segment,
		"total", job.Total,
		"sent", job.Sent,
		"failed", job.Failed,
		"started_at", job.StartedAt.UTC().Format(time.RFC3339Nano),
	).Err()
	if err != nil {
		return err
	}
	return s.touch(ctx, key)
}

func (s *jobStore) Incr(ctx context.Context, id string, sent bool) error {
	field := "failed"
	if sent {
		field = "sent"
	}
	return s.client.HIncrBy(ctx, jobKey(id), field, 1).Err()
}

func (s *jobStore) Finish(ctx context.Context, id, state string, at time.Time) error {
	key := jobKey(id)
	err := s.client.HSet(ctx, key,
		"state", state,
		"finished_at", at.UTC().Format(time.RFC3339Nano),
	).Err()
	if err != nil {
		return err
	}
	return s.touch(ctx, key)
}

func (s *jobStore) Get(ctx context.Context, id string) (*models.Job, error) {
	fields, err := s.client.HGetAll(ctx, jobKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, repository.ErrJobNotFound
	}
	return decodeJob(fields)
}

func decodeJob(fields map[string]string) (*models.Job, error) {
	job := &models.Job{
		ID:      fields["id"],
		State:   fields["state"],
		Segment: fields["segment"],
	}
	var err error
	for name, dst := range map[string]*int{"total": &job.Total, "sent": &job.Sent, "failed": &job.Failed} {
		raw := fields[name]
		if raw == "" {
			continue
		}
		if *dst, err = strconv.Atoi(raw); err != nil {
			return nil, fmt.Errorf("decode job %s field %s: %w", job.ID, name, err)
		}
	}
	if raw := fields["started_at"]; raw != "" {
		if job.StartedAt, err = time.Parse(time.RFC3339Nano, raw); err != nil {
			return nil, fmt.Errorf("decode job %s started_at: %w", job.ID, err)
		}
	}
	if raw := fields["finished_at"]; raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("decode job %s finished_at: %w", job.ID, err)
		}
		job.FinishedAt = &t
	}
	return job, nil
}
