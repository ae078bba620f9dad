package repository

import (
	"context"
	"errors"
	"time"

	"kaliroot-admin/internal/common/validation"
	"kaliroot-admin/internal/features/broadcast/models"
	"kaliroot-admin/internal/platform/backend"
)

var ErrJobNotFound = errors.New("broadcast job not found")

// JobStore keeps the progress of broadcast runs.
type JobStore interface {
	Create(ctx context.Context, job *models.Job) error
	// Incr adds one to the sent or failed counter.
	Incr(ctx context.Context, id string, sent bool) error
	Finish(ctx context.Context, id, state string, at time.Time) error
	Get(ctx context.Context, id string) (*models.Job, error)
}

type RecipientRepository interface {
	// Recipients returns the user ids of a segment.
	Recipients(ctx context.Context, segment string) ([]int64, error)
}

type recipientRepository struct {
	db backend.Resolver
}

func NewRecipientRepository(db backend.Resolver) RecipientRepository {
	return &recipientRepository{db: db}
}

// SegmentQuery selects the user ids of segment. free is every user that is
// not active, users without a status included.
func SegmentQuery(segment string) backend.Query {
	q := backend.From(backend.TableUsers).Select("user_id")
	switch segment {
	case validation.SegmentPremium:
		q = q.Eq("subscription_status", validation.StatusActive)
	case validation.SegmentFree:
		q = q.IsDistinct("subscription_status", validation.StatusActive)
	}
	return q
}

func (r *recipientRepository) Recipients(ctx context.Context, segment string) ([]int64, error) {
	db, err := r.db.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	var rows []struct {
		UserID int64 `json:"user_id"`
	}
	if err := db.Select(ctx, SegmentQuery(segment), &rows); err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.UserID)
	}
	return ids, nil
}
