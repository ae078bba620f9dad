package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaliroot-admin/internal/features/audit/models"
	"kaliroot-admin/internal/features/audit/repository"
	"kaliroot-admin/internal/platform/backend"
	"kaliroot-admin/internal/platform/backend/backendtest"
)

func seedEntries(n int) []map[string]any {
	types := []string{models.EventUserCreated, models.EventAddCredits, "custom_event"}
	rows := make([]map[string]any, n)
	for i := range rows {
		rows[i] = map[string]any{
			"id":         i + 1,
			"event_type": types[i%len(types)],
			"details":    map[string]any{"amount": i},
			"created_at": fmt.Sprintf("2025-01-01T00:%02d:00Z", i%60),
		}
	}
	return rows
}

func TestIcon(t *testing.T) {
	assert.Equal(t, "👤", models.Icon(models.EventUserCreated))
	assert.Equal(t, "💎", models.Icon(models.EventSubscriptionActivated))
	assert.Equal(t, models.DefaultIcon, models.Icon("unknown"))
}

func TestLogFiltersByType(t *testing.T) {
	db := backendtest.New().Seed(backend.TableAuditLog, seedEntries(30))
	svc := NewAuditService(repository.NewAuditRepository(backend.Static{Backend: db}))

	all, err := svc.Log(context.Background(), "all")
	require.NoError(t, err)
	assert.Len(t, all, 30)
	assert.Equal(t, "2025-01-01T00:29:00Z", all[0].CreatedAt)

	credits, err := svc.Log(context.Background(), models.EventAddCredits)
	require.NoError(t, err)
	assert.Len(t, credits, 10)
	for _, e := range credits {
		assert.Equal(t, "💰", e.Icon)
	}

	custom, err := svc.Log(context.Background(), "custom_event")
	require.NoError(t, err)
	require.NotEmpty(t, custom)
	assert.Equal(t, models.DefaultIcon, custom[0].Icon)
	assert.JSONEq(t, `{"amount":29}`, string(custom[0].Details))
}

func TestRecentActivityIsLimited(t *testing.T) {
	db := backendtest.New().Seed(backend.TableAuditLog, seedEntries(30))
	svc := NewAuditService(repository.NewAuditRepository(backend.Static{Backend: db}))

	recent, err := svc.RecentActivity(context.Background())
	require.NoError(t, err)
	assert.Len(t, recent, ActivityLimit)

	calls := db.CallsTo("select", backend.TableAuditLog)
	require.Len(t, calls, 1)
	assert.Equal(t, ActivityLimit, calls[0].Query.Max)
}
