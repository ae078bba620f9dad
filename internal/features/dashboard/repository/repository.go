package repository

import (
	"context"

	"kaliroot-admin/internal/common/validation"
	"kaliroot-admin/internal/platform/backend"
)

type StatsRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountPremium(ctx context.Context) (int64, error)
	SumCredits(ctx context.Context) (int64, error)
	CountResources(ctx context.Context) (int64, error)
}

type statsRepository struct {
	db backend.Resolver
}

func NewStatsRepository(db backend.Resolver) StatsRepository {
	return &statsRepository{db: db}
}

func (r *statsRepository) count(ctx context.Context, q backend.Query) (int64, error) {
	db, err := r.db.Resolve(ctx)
	if err != nil {
		return 0, err
	}
	return db.Count(ctx, q)
}

func (r *statsRepository) CountUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, backend.From(backend.TableUsers))
}

func (r *statsRepository) CountPremium(ctx context.Context) (int64, error) {
	return r.count(ctx, backend.From(backend.TableUsers).Eq("subscription_status", validation.StatusActive))
}

func (r *statsRepository) CountResources(ctx context.Context) (int64, error) {
	return r.count(ctx, backend.From(backend.TableResources))
}

// SumCredits adds credit_balance over every user. Missing balances count
// as zero.
func (r *statsRepository) SumCredits(ctx context.Context) (int64, error) {
	db, err := r.db.Resolve(ctx)
	if err != nil {
		return 0, err
	}
	var rows []struct {
		CreditBalance *float64 `json:"credit_balance"`
	}
	if err := db.Select(ctx, backend.From(backend.TableUsers).Select("credit_balance"), &rows); err != nil {
		return 0, err
	}
	var total float64
	for _, row := range rows {
		if row.CreditBalance != nil {
			total += *row.CreditBalance
		}
	}
	return int64(total), nil
}
