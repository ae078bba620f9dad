package repository

import (
	"context"
	"time"

	"kaliroot-admin/internal/common/validation"
	"kaliroot-admin/internal/features/subscription/models"
	"kaliroot-admin/internal/platform/backend"
)

const columns = "user_id, first_name, username, subscription_status, subscription_expiry_date, nowpayments_invoice_id, updated_at"

type SubscriptionRepository interface {
	// List returns subscriptions most recently updated first. filter is a
	// status, "expired" (expiry before now) or "all".
	List(ctx context.Context, filter string, now time.Time) ([]models.Subscription, error)
	Activate(ctx context.Context, userID int64, expiry time.Time) error
}

type subscriptionRepository struct {
	db backend.Resolver
}

func NewSubscriptionRepository(db backend.Resolver) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) List(ctx context.Context, filter string, now time.Time) ([]models.Subscription, error) {
	db, err := r.db.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	q := backend.From(backend.TableUsers).Select(columns).Order("updated_at", false)
	switch filter {
	case "", models.FilterAll:
	case models.FilterExpired:
		q = q.Lt("subscription_expiry_date", now.UTC())
	default:
		q = q.Eq("subscription_status", filter)
	}
	var subs []models.Subscription
	if err := db.Select(ctx, q, &subs); err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *subscriptionRepository) Activate(ctx context.Context, userID int64, expiry time.Time) error {
	db, err := r.db.Resolve(ctx)
	if err != nil {
		return err
	}
	values := map[string]any{
		"subscription_status":      validation.StatusActive,
		"subscription_expiry_date": expiry.UTC().Format(time.RFC3339),
	}
	return db.Update(ctx, backend.TableUsers, values, backend.Eq("user_id", userID))
}
