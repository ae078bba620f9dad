package repository

import (
	"context"
	"errors"

	"kaliroot-admin/internal/domain/credentials"
	"kaliroot-admin/internal/features/session/models"
)

var ErrSessionNotFound = errors.New("session not found")

// CredentialStore keeps the remembered login credentials.
type CredentialStore interface {
	Load(ctx context.Context) (credentials.Credentials, error)
	// Save writes the non-empty fields, leaving the others as they were.
	Save(ctx context.Context, creds credentials.Credentials) error
	Clear(ctx context.Context) error
}

type SessionStore interface {
	Create(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}
