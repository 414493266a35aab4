// Package ical выгружает события пользователя в формате iCalendar (RFC 5545).
package ical

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/Freeeeeet/time_tracker/internal/model"
)

const (
	ProductID    = "-//Freeeeeet//Time Tracker//RU"
	CalendarName = "Time Tracker"
	uidDomain    = "time-tracker"
)

// Export собирает календарь из событий. now используется как DTSTAMP
// для событий без created_at.
func Export(events []*model.Event, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(ProductID)
	cal.SetXWRCalName(CalendarName)

	for _, e := range events {
		ev := cal.AddEvent(EventUID(e))

		stamp := e.CreatedAt
		if stamp.IsZero() {
			stamp = now
		}
		ev.SetDtStampTime(stamp.UTC())
		ev.SetStartAt(e.StartTime.UTC())
		ev.SetEndAt(e.EndTime.UTC())
		ev.SetSummary(Summary(e))

		if e.Description != "" {
			ev.SetDescription(e.Description)
		}
		if e.CategoryName != "" {
			ev.AddProperty(ics.ComponentPropertyCategories, e.CategoryName)
		}
		ev.SetColor(e.Color())
	}

	return cal.Serialize()
}

// EventUID стабильный UID: повторный импорт обновляет событие, а не дублирует
func EventUID(e *model.Event) string {
	return fmt.Sprintf("event-%d@%s", e.ID, uidDomain)
}

// Summary заголовок события в календаре: "[План] РАБОТА: стендап"
func Summary(e *model.Event) string {
	var b strings.Builder

	switch e.Type {
	case model.EventTypeFact:
		b.WriteString("[Факт] ")
	default:
		b.WriteString("[План] ")
	}

	name := e.CategoryName
	if name == "" {
		name = "Без категории"
	}
	b.WriteString(name)

	if e.Title != "" {
		b.WriteString(": ")
		b.WriteString(e.Title)
	}
	return b.String()
}
