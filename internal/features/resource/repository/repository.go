package repository

import (
	"context"

	"kaliroot-admin/internal/features/resource/models"
	"kaliroot-admin/internal/platform/backend"
)

type ResourceRepository interface {
	List(ctx context.Context) ([]models.Resource, error)
	Create(ctx context.Context, values map[string]any) error
	Update(ctx context.Context, id int64, values map[string]any) error
	Delete(ctx context.Context, id int64) error
}

type resourceRepository struct {
	db backend.Resolver
}

func NewResourceRepository(db backend.Resolver) ResourceRepository {
	return &resourceRepository{db: db}
}

func (r *resourceRepository) List(ctx context.Context) ([]models.Resource, error) {
	db, err := r.db.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	var out []models.Resource
	q := backend.From(backend.TableResources).Order("created_at", false)
	if err := db.Select(ctx, q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *resourceRepository) Create(ctx context.Context, values map[string]any) error {
	db, err := r.db.Resolve(ctx)
	if err != nil {
		return err
	}
	return db.Insert(ctx, backend.TableResources, []map[string]any{values})
}

func (r *resourceRepository) Update(ctx context.Context, id int64, values map[string]any) error {
	db, err := r.db.Resolve(ctx)
	if err != nil {
		return err
	}
	return db.Update(ctx, backend.TableResources, values, backend.Eq("id", id))
}

func (r *resourceRepository) Delete(ctx context.Context, id int64) error {
	db, err := r.db.Resolve(ctx)
	if err != nil {
		return err
	}
	return db.Delete(ctx, backend.TableResources, backend.Eq("id", id))
}
