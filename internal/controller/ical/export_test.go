package ical

import (
	"strings"
	"testing"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/time_tracker/internal/model"
)

func TestExport(t *testing.T) {
	start := time.Date(2025, 12, 22, 9, 0, 0, 0, time.UTC)
	catID := int64(7)
	events := []*model.Event{
		{
			ID: 1, CategoryID: &catID, CategoryName: "РАБОТА", CategoryColor: "#FF0000",
			Type: model.EventTypePlan, Title: "стендап",
			StartTime: start, EndTime: start.Add(30 * time.Minute),
			CreatedAt: start.Add(-time.Hour),
		},
		{
			ID: 2, Type: model.EventTypeFact, Description: "без категории",
			StartTime: start.Add(time.Hour), EndTime: start.Add(2 * time.Hour),
		},
	}

	out := Export(events, start)
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	assert.Contains(t, out, ProductID)

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	parsed := cal.Events()
	require.Len(t, parsed, 2)

	assert.Equal(t, "event-1@time-tracker", parsed[0].Id())
	assert.Equal(t, "[План] РАБОТА: стендап", parsed[0].GetProperty(ics.ComponentPropertySummary).Value)

	gotStart, err := parsed[0].GetStartAt()
	require.NoError(t, err)
	assert.True(t, start.Equal(gotStart))

	gotEnd, err := parsed[1].GetEndAt()
	require.NoError(t, err)
	assert.True(t, start.Add(2*time.Hour).Equal(gotEnd))
	assert.Equal(t, "[Факт] Без категории", parsed[1].GetProperty(ics.ComponentPropertySummary).Value)
}

func TestExport_Empty(t *testing.T) {
	out := Export(nil, time.Now())

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	require.NoError(t, err)
	assert.Empty(t, cal.Events())
}
