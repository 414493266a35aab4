package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Форматы без часового пояса трактуются как UTC
var naiveLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

var durationNumber = regexp.MustCompile(`\d+(?:[.,]\d+)?`)

// ParseTimestamp parses the timestamps the clients send and returns UTC:
// "2024-01-01 14:30:00", "2024-01-01T14:30:00", "2024-01-01T14:30:00Z",
// "2024-01-01T17:30:00+03:00", each optionally with fractional seconds.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	iso := strings.Replace(s, " ", "T", 1)
	if t, err := time.Parse(time.RFC3339Nano, iso); err == nil {
		return t.UTC(), nil
	}

	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unsupported timestamp %q, use \"YYYY-MM-DD HH:MM:SS\" or ISO 8601", s)
}

// ParseDateOrTimestamp принимает то же, что ParseTimestamp, а также дату
// "2024-01-01" (полночь UTC). Используется для фильтров выборки.
func ParseDateOrTimestamp(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(s), time.UTC); err == nil {
		return t, nil
	}
	return ParseTimestamp(s)
}

// ParseClock разбирает "14:30" в момент на дате day (UTC)
func ParseClock(s string, day time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return time.Time{}, fmt.Errorf("can't parse time %q", s)
	}

	hours, err := strconv.Atoi(strings.TrimSpace(hh))
	if err != nil || hours < 0 || hours > 23 {
		return time.Time{}, fmt.Errorf("can't parse time %q", s)
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(mm))
	if err != nil || minutes < 0 || minutes > 59 {
		return time.Time{}, fmt.Errorf("can't parse time %q", s)
	}

	day = day.UTC()
	return time.Date(day.Year(), day.Month(), day.Day(), hours, minutes, 0, 0, time.UTC), nil
}

// ParseDurationExpr разбирает длительность вида "2 часа", "90 минут", "1.5 hours".
// Число без единиц считается минутами.
func ParseDurationExpr(s string) (time.Duration, error) {
	lower := strings.ToLower(strings.TrimSpace(s))

	num := durationNumber.FindString(lower)
	if num == "" {
		return 0, fmt.Errorf("can't parse duration %q", s)
	}

	value, err := strconv.ParseFloat(strings.Replace(num, ",", ".", 1), 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("can't parse duration %q", s)
	}

	unit := time.Minute
	if strings.Contains(lower, "час") || strings.Contains(lower, "hour") {
		unit = time.Hour
	}

	return time.Duration(value * float64(unit)).Round(time.Second), nil
}

// ParseTimeExpression разбирает свободный ввод из бота.
// "14:30-16:00" - интервал сегодня, иначе длительность начиная с now.
func ParseTimeExpression(expr string, now time.Time) (start, end time.Time, err error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("empty time expression")
	}

	if from, to, ok := strings.Cut(expr, "-"); ok {
		start, err = ParseClock(from, now)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end, err = ParseClock(to, now)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return start, end, nil
	}

	d, err := ParseDurationExpr(expr)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	start = now.UTC().Truncate(time.Second)
	return start, start.Add(d), nil
}
