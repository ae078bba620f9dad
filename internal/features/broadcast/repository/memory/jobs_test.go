package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kaliroot-admin/internal/features/broadcast/models"
	"kaliroot-admin/internal/features/broadcast/repository"
)

func TestJobStore(t *testing.T) {
	ctx := context.Background()
	s := NewJobStore()
	started := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	job := &models.Job{ID: "j1", State: models.StateRunning, Segment: "all", Total: 3, StartedAt: started}
	require.NoError(t, s.Create(ctx, job))
	job.Total = 99

	require.NoError(t, s.Incr(ctx, "j1", true))
	require.NoError(t, s.Incr(ctx, "j1", true))
	require.NoError(t, s.Incr(ctx, "j1", false))
	require.NoError(t, s.Finish(ctx, "j1", models.StateCompleted, started.Add(time.Second)))

	got, err := s.Get(ctx, "j1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.Total, "the store keeps its own copy")
	assert.Equal(t, 2, got.Sent)
	assert.Equal(t, 1, got.Failed)
	assert.Equal(t, models.StateCompleted, got.State)
	require.NotNil(t, got.FinishedAt)
	assert.Equal(t, started.Add(time.Second), *got.FinishedAt)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrJobNotFound)
	assert.ErrorIs(t, s.Incr(ctx, "missing", true), repository.ErrJobNotFound)
	assert.ErrorIs(t, s.Finish(ctx, "missing", models.StateStopped, started), repository.ErrJobNotFound)
}
