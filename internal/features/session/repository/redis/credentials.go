package redis

import (
	"context"
	"fmt"

	"kaliroot-admin/internal/domain/credentials"
	"kaliroot-admin/internal/features/session/repository"
	"kaliroot-admin/internal/platform/redis"
)

const credentialsKey = "credentials:saved"

type credentialStore struct {
	client redis.RedisClient
}

// NewCredentialStore keeps the remembered credentials in a single hash whose
// fields are the credential keys.
func NewCredentialStore(client redis.RedisClient) repository.CredentialStore {
	return &credentialStore{client: client}
}

func (s *credentialStore) Load(ctx context.Context) (credentials.Credentials, error) {
	fields, err := s.client.HGetAll(ctx, credentialsKey).Result()
	if err != nil {
		return credentials.Credentials{}, fmt.Errorf("load credentials: %w", err)
	}
	return credentials.FromMap(fields), nil
}

func (s *credentialStore) Save(ctx context.Context, creds credentials.Credentials) error {
	fields := creds.Trim().ToMap()
	if len(fields) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(fields)*2)
	for _, k := range credentials.Keys {
		if v, ok := fields[k]; ok {
			values = append(values, k, v)
		}
	}
	if err := s.client.HSet(ctx, credentialsKey, values...).Err(); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

func (s *credentialStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, credentialsKey).Err(); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}
