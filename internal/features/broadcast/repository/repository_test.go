package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaliroot-admin/internal/platform/backend"
	"kaliroot-admin/internal/platform/backend/backendtest"
)

func TestSegmentQuery(t *testing.T) {
	all := SegmentQuery("all")
	assert.Equal(t, backend.TableUsers, all.Table)
	assert.Equal(t, "user_id", all.Columns)
	assert.Empty(t, all.Filters)

	premium := SegmentQuery("premium")
	assert.Equal(t, []backend.Filter{{Column: "subscription_status", Op: backend.OpEq, Value: "active"}}, premium.Filters)

	free := SegmentQuery("free")
	assert.Equal(t, []backend.Filter{{Column: "subscription_status", Op: backend.OpIsDistinct, Value: "active"}}, free.Filters)
}

func TestRecipients(t *testing.T) {
	db := backendtest.New().Seed(backend.TableUsers, []map[string]any{
		{"user_id": 1, "subscription_status": "active"},
		{"user_id": 2, "subscription_status": "inactive"},
		{"user_id": 3, "subscription_status": "expired"},
		{"user_id": 4, "subscription_status": nil},
	})
	repo := NewRecipientRepository(backend.Static{Backend: db})
	ctx := context.Background()

	ids, err := repo.Recipients(ctx, "all")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4}, ids)

	ids, err = repo.Recipients(ctx, "premium")
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)

	ids, err = repo.Recipients(ctx, "free")
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3, 4}, ids)

	premium, _ := repo.Recipients(ctx, "premium")
	all, _ := repo.Recipients(ctx, "all")
	assert.ElementsMatch(t, all, append(premium, ids...))
}
