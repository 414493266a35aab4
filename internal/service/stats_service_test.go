package service

import (
	"context"
	"testing"

	"github.com/Freeeeeet/time_tracker/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsService(t *testing.T) {
	ctx := context.Background()
	svc, catID := setupEvents(t)

	create := func(start, end string, typ model.EventType) {
		_, err := svc.events.Create(ctx, 1, CreateEventRequest{CategoryID: &catID, StartTime: start, EndTime: end, Type: typ})
		require.NoError(t, err)
	}
	create("2025-12-24 09:00:00", "2025-12-24 10:00:00", model.EventTypePlan)
	create("2025-12-24 10:00:00", "2025-12-24 11:00:00", model.EventTypePlan)
	create("2025-12-23 10:00:00", "2025-12-23 11:00:00", model.EventTypePlan)
	create("2025-12-24 09:00:00", "2025-12-24 10:00:00", model.EventTypeFact)

	stats, err := svc.stats.Stats(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Categories)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Plan)
	assert.Equal(t, 1, stats.Fact)
	assert.Equal(t, 3, stats.Today)
	assert.InDelta(t, 33.3, stats.Productivity, 1e-9)
}

func TestProductivity(t *testing.T) {
	assert.Zero(t, productivity(5, 0))
	assert.Equal(t, 100.0, productivity(2, 2))
	assert.Equal(t, 66.7, productivity(2, 3))
	assert.Equal(t, 150.0, productivity(3, 2))
}
