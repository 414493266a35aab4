package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC)

	inputs := []string{
		"2024-01-01 14:30:00",
		"2024-01-01T14:30:00",
		"2024-01-01T14:30:00Z",
		"2024-01-01T14:30:00.000Z",
		"2024-01-01T17:30:00+03:00",
		"2024-01-01 17:30:00+03:00",
		"2024-01-01 14:30",
		" 2024-01-01T14:30 ",
	}
	for _, in := range inputs {
		got, err := ParseTimestamp(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s -> %s", in, got)
		assert.Equal(t, time.UTC, got.Location(), in)
	}

	for _, in := range []string{"", "01.01.2024 14:30", "2024-13-01 10:00:00", "tomorrow"} {
		_, err := ParseTimestamp(in)
		assert.Error(t, err, in)
	}
}

func TestParseDateOrTimestamp(t *testing.T) {
	got, err := ParseDateOrTimestamp("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDateOrTimestamp("2024-03-05T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), got)

	_, err = ParseDateOrTimestamp("05.03.2024")
	assert.Error(t, err)
}

func TestParseClock(t *testing.T) {
	day := time.Date(2024, 5, 6, 22, 0, 0, 0, time.UTC)

	got, err := ParseClock("09:05", day)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 6, 9, 5, 0, 0, time.UTC), got)

	for _, in := range []string{"24:00", "10:60", "10", "aa:bb", "-1:00"} {
		_, err := ParseClock(in, day)
		assert.Error(t, err, in)
	}
}

func TestParseDurationExpr(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"2 часа", 2 * time.Hour},
		{"1 час", time.Hour},
		{"1,5 часа", 90 * time.Minute},
		{"90 минут", 90 * time.Minute},
		{"45", 45 * time.Minute},
		{"3 hours", 3 * time.Hour},
		{"20 min", 20 * time.Minute},
	}
	for _, tt := range tests {
		got, err := ParseDurationExpr(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, in := range []string{"", "много", "0 минут"} {
		_, err := ParseDurationExpr(in)
		assert.Error(t, err, in)
	}
}

func TestParseTimeExpression(t *testing.T) {
	now := time.Date(2024, 5, 6, 12, 0, 0, 500, time.UTC)

	start, end, err := ParseTimeExpression("14:30-16:00", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 6, 14, 30, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 5, 6, 16, 0, 0, 0, time.UTC), end)

	start, end, err = ParseTimeExpression("2 часа", now)
	require.NoError(t, err)
	assert.Equal(t, now.Truncate(time.Second), start)
	assert.Equal(t, 2*time.Hour, end.Sub(start))

	_, _, err = ParseTimeExpression("14:30-", now)
	assert.Error(t, err)
}
