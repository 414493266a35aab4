package formatting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tests := map[int]string{
		0:   "0 мин",
		45:  "45 мин",
		60:  "1 ч",
		90:  "1 ч 30 мин",
		600: "10 ч",
	}
	for minutes, want := range tests {
		assert.Equal(t, want, FormatDuration(minutes), minutes)
	}
}

func TestPluralizeEvents(t *testing.T) {
	tests := map[int]string{
		1:   "событие",
		2:   "события",
		5:   "событий",
		11:  "событий",
		21:  "событие",
		104: "события",
		112: "событий",
	}
	for n, want := range tests {
		assert.Equal(t, want, PluralizeEvents(n), n)
	}
}

func TestPluralizeCategories(t *testing.T) {
	assert.Equal(t, "категория", PluralizeCategories(1))
	assert.Equal(t, "категории", PluralizeCategories(3))
	assert.Equal(t, "категорий", PluralizeCategories(0))
	assert.Equal(t, "категорий", PluralizeCategories(12))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "Пн", WeekdayShort(time.Monday))
	assert.Equal(t, "Вс", WeekdayShort(time.Sunday))
	assert.Equal(t, "Декабрь", MonthName(time.December))
	assert.Equal(t, "", MonthName(0))
	assert.Equal(t, "09:00", FormatHour(9))
	assert.Equal(t, "14:30-16:00", FormatTimeRange(
		time.Date(2025, 1, 1, 14, 30, 0, 0, time.UTC),
		time.Date(2025, 1, 1, 16, 0, 0, 0, time.UTC),
	))

	ts := time.Date(2025, 3, 7, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "07.03.2025 09:05", FormatDateTime(ts))
	assert.Equal(t, "07.03.2025", FormatDate(ts))
}
