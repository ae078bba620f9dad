package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaliroot-admin/internal/common/errors"
	"kaliroot-admin/internal/features/learning/models"
	"kaliroot-admin/internal/features/learning/repository"
	"kaliroot-admin/internal/platform/backend"
	"kaliroot-admin/internal/platform/backend/backendtest"
)

func TestBadgesDefaultIcon(t *testing.T) {
	db := backendtest.New().Seed(backend.TableBadges, []map[string]any{
		{"id": 2, "name": "Root", "icon": "⚡"},
		{"id": 1, "name": "Newbie", "icon": nil},
	})
	svc := NewLearningService(repository.NewLearningRepository(backend.Static{Backend: db}))

	badges, err := svc.Badges(context.Background())
	require.NoError(t, err)
	require.Len(t, badges, 2)
	assert.Equal(t, "Newbie", badges[0]["name"])
	assert.Equal(t, models.DefaultBadgeIcon, badges[0]["icon"])
	assert.Equal(t, "⚡", badges[1]["icon"])
}

func TestCompletionsNewestFirst(t *testing.T) {
	db := backendtest.New().Seed(backend.TableUserModules, []map[string]any{
		{"id": 1, "user_id": 10, "module_id": 1, "completed_at": "2025-01-01T00:00:00Z"},
		{"id": 2, "user_id": 11, "module_id": 2, "completed_at": "2025-02-01T00:00:00Z", "score": 97, "notes": "first try"},
	})
	svc := NewLearningService(repository.NewLearningRepository(backend.Static{Backend: db}))

	out, err := svc.Completions(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, float64(2), out[0]["id"])
	assert.Equal(t, float64(97), out[0]["score"])
	assert.Equal(t, "first try", out[0]["notes"])
	assert.Equal(t, CompletionsLimit, db.CallsTo("select", backend.TableUserModules)[0].Query.Max)
}

func TestMissingTable(t *testing.T) {
	db := backendtest.New().Fail(backend.TableBadges, &backend.Error{Code: backend.CodeUndefinedTable, Message: "missing"})
	svc := NewLearningService(repository.NewLearningRepository(backend.Static{Backend: db}))

	_, err := svc.Badges(context.Background())
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeTableMissing, appErr.Code)
}
