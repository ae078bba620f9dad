// Package memory holds sessions and remembered credentials in process
// memory. Used when redis is disabled and in tests.
package memory

import (
	"context"
	"sync"
	"time"

	"kaliroot-admin/internal/domain/credentials"
	"kaliroot-admin/internal/features/session/models"
	"kaliroot-admin/internal/features/session/repository"
)

type CredentialStore struct {
	mu    sync.RWMutex
	saved map[string]string
}

var _ repository.CredentialStore = (*CredentialStore)(nil)

func NewCredentialStore() *CredentialStore {
	return &CredentialStore{saved: map[string]string{}}
}

func (s *CredentialStore) Load(context.Context) (credentials.Credentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return credentials.FromMap(s.saved), nil
}

func (s *CredentialStore) Save(_ context.Context, creds credentials.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range creds.Trim().ToMap() {
		s.saved[k] = v
	}
	return nil
}

func (s *CredentialStore) Clear(context.Context) error {
	s.mu.Lock()
	s.saved = map[string]string{}
	s.mu.Unlock()
	return nil
}

type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
	now      func() time.Time
}

var _ repository.SessionStore = (*SessionStore)(nil)

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[string]models.Session{}, now: time.Now}
}

func (s *SessionStore) Create(_ context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = *sess
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, repository.ErrSessionNotFound
	}
	if sess.Expired(s.now()) {
		delete(s.sessions, id)
		return nil, repository.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}
