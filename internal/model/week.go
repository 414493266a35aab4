package model

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var weekIDPattern = regexp.MustCompile(`^(\d{4})-W(\d{1,2})$`)

// WeekRange is one ISO-8601 week in UTC: Monday 00:00:00 through Sunday 23:59:59.
type WeekRange struct {
	Year  int       `json:"year"`
	Week  int       `json:"week"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ISOWeeksInYear returns 52 or 53. December 28 always falls into the last ISO week.
func ISOWeeksInYear(year int) int {
	_, w := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return w
}

// ISOWeekRange вычисляет границы недели week ISO-года year.
// Неделя 1 содержит первый четверг года (т.е. всегда содержит 4 января).
func ISOWeekRange(year, week int) (WeekRange, error) {
	if year < 1 || year > 9999 {
		return WeekRange{}, fmt.Errorf("year %d out of range", year)
	}
	if week < 1 || week > ISOWeeksInYear(year) {
		return WeekRange{}, fmt.Errorf("week %d out of range for %d", week, year)
	}

	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7 // дней от понедельника
	start := jan4.AddDate(0, 0, -offset+(week-1)*7)

	return WeekRange{
		Year:  year,
		Week:  week,
		Start: start,
		End:   start.AddDate(0, 0, 7).Add(-time.Second),
	}, nil
}

// WeekOf возвращает ISO-неделю, в которую попадает t (в UTC)
func WeekOf(t time.Time) WeekRange {
	year, week := t.UTC().ISOWeek()
	r, _ := ISOWeekRange(year, week)
	return r
}

// ParseWeekID разбирает идентификатор вида "2025-W52"
func ParseWeekID(id string) (WeekRange, error) {
	m := weekIDPattern.FindStringSubmatch(id)
	if m == nil {
		return WeekRange{}, fmt.Errorf("invalid week id %q, expected YYYY-Www", id)
	}
	year, _ := strconv.Atoi(m[1])
	week, _ := strconv.Atoi(m[2])
	return ISOWeekRange(year, week)
}

// ID возвращает идентификатор недели в формате YYYY-Www
func (w WeekRange) ID() string {
	return fmt.Sprintf("%04d-W%02d", w.Year, w.Week)
}

// Next returns the exclusive upper bound: the following Monday 00:00:00.
func (w WeekRange) Next() time.Time {
	return w.Start.AddDate(0, 0, 7)
}

// Contains проверяет попадает ли момент в неделю
func (w WeekRange) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.Next())
}

// Days возвращает семь дат недели начиная с понедельника
func (w WeekRange) Days() []time.Time {
	days := make([]time.Time, 0, 7)
	for i := 0; i < 7; i++ {
		days = append(days, w.Start.AddDate(0, 0, i))
	}
	return days
}

// DayBucket события одного календарного дня, разделённые по типу
type DayBucket struct {
	Date    string       `json:"date"` // 2006-01-02
	Weekday time.Weekday `json:"weekday"`
	Plan    []*Event     `json:"plan"`
	Fact    []*Event     `json:"fact"`
}

// WeekView неделя, подготовленная для отрисовки сетки календаря
type WeekView struct {
	Range       WeekRange   `json:"week"`
	Days        []DayBucket `json:"days"`
	Events      []*Event    `json:"events"`
	PlanMinutes int         `json:"plan_minutes"`
	FactMinutes int         `json:"fact_minutes"`
}

// BuildWeekView раскладывает события по дням и типам.
// События, начинающиеся вне недели, отбрасываются.
func BuildWeekView(week WeekRange, events []*Event) *WeekView {
	view := &WeekView{
		Range:  week,
		Days:   make([]DayBucket, 7),
		Events: make([]*Event, 0, len(events)),
	}

	for i, day := range week.Days() {
		view.Days[i] = DayBucket{
			Date:    day.Format("2006-01-02"),
			Weekday: day.Weekday(),
			Plan:    []*Event{},
			Fact:    []*Event{},
		}
	}

	for _, e := range events {
		start := e.StartTime.UTC()
		if !week.Contains(start) {
			continue
		}
		idx := int(start.Sub(week.Start) / (24 * time.Hour))
		bucket := &view.Days[idx]

		switch e.Type {
		case EventTypeFact:
			bucket.Fact = append(bucket.Fact, e)
			view.FactMinutes += e.DurationMinutes()
		default:
			bucket.Plan = append(bucket.Plan, e)
			view.PlanMinutes += e.DurationMinutes()
		}
		view.Events = append(view.Events, e)
	}

	return view
}
