package repository

import (
	"context"

	"kaliroot-admin/internal/features/audit/models"
	"kaliroot-admin/internal/platform/backend"
)

type AuditRepository interface {
	// Recent returns up to limit entries newest first, optionally only of
	// one event type.
	Recent(ctx context.Context, eventType string, limit int) ([]models.Entry, error)
}

type auditRepository struct {
	db backend.Resolver
}

func NewAuditRepository(db backend.Resolver) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Recent(ctx context.Context, eventType string, limit int) ([]models.Entry, error) {
	db, err := r.db.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	q := backend.From(backend.TableAuditLog).Order("created_at", false).Limit(limit)
	if eventType != "" {
		q = q.Eq("event_type", eventType)
	}
	var out []models.Entry
	if err := db.Select(ctx, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
