package repository

import (
	"context"

	"kaliroot-admin/internal/features/user/models"
	"kaliroot-admin/internal/platform/backend"
)

type UserRepository interface {
	// List returns every user, newest first.
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, userID int64, values map[string]any) error
}

type userRepository struct {
	db backend.Resolver
}

func NewUserRepository(db backend.Resolver) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	db, err := r.db.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	var users []models.User
	q := backend.From(backend.TableUsers).Order("created_at", false)
	if err := db.Select(ctx, q, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, userID int64, values map[string]any) error {
	db, err := r.db.Resolve(ctx)
	if err != nil {
		return err
	}
	return db.Update(ctx, backend.TableUsers, values, backend.Eq("user_id", userID))
}
