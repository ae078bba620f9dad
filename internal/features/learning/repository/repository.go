package repository

import (
	"context"

	"kaliroot-admin/internal/features/learning/models"
	"kaliroot-admin/internal/platform/backend"
)

type LearningRepository interface {
	Completions(ctx context.Context, limit int) ([]models.ModuleCompletion, error)
	Badges(ctx context.Context) ([]models.Badge, error)
}

type learningRepository struct {
	db backend.Resolver
}

func NewLearningRepository(db backend.Resolver) LearningRepository {
	return &learningRepository{db: db}
}

func (r *learningRepository) Completions(ctx context.Context, limit int) ([]models.ModuleCompletion, error) {
	db, err := r.db.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.ModuleCompletion
	q := backend.From(backend.TableUserModules).Order("completed_at", false).Limit(limit)
	if err := db.Select(ctx, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *learningRepository) Badges(ctx context.Context) ([]models.Badge, error) {
	db, err := r.db.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Badge
	if err := db.Select(ctx, backend.From(backend.TableBadges).Order("id", true), &out); err != nil {
		return nil, err
	}
	return out, nil
}
