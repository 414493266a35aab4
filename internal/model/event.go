package model

import "time"

type EventType string

const (
	EventTypePlan EventType = "plan" // Запланированный блок времени
	EventTypeFact EventType = "fact" // Фактически потраченное время
)

// IsValid проверяет что тип события известен
func (t EventType) IsValid() bool {
	return t == EventTypePlan || t == EventTypeFact
}

type EventSource string

const (
	EventSourceWeb           EventSource = "web"
	EventSourceTelegram      EventSource = "telegram"
	EventSourceTelegramQuick EventSource = "telegram_quick"
	EventSourceBulk          EventSource = "bulk"
	EventSourceTemplate      EventSource = "template"
)

func (s EventSource) IsValid() bool {
	switch s {
	case EventSourceWeb, EventSourceTelegram, EventSourceTelegramQuick, EventSourceBulk, EventSourceTemplate:
		return true
	}
	return false
}

// DefaultEventColor используется для событий без категории
const DefaultEventColor = "#4361ee"

type Event struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user_id"`
	CategoryID  *int64      `json:"category_id"` // nil - категория удалена
	Title       string      `json:"title"`
	Description string      `json:"description"`
	StartTime   time.Time   `json:"start_time"`
	EndTime     time.Time   `json:"end_time"`
	Type        EventType   `json:"type"`
	Source      EventSource `json:"source"`
	CreatedAt   time.Time   `json:"created_at"`

	// Заполняются через JOIN с categories (не колонки events)
	CategoryName  string `json:"category_name"`
	CategoryColor string `json:"category_color"`
}

// Duration возвращает длительность события
func (e *Event) Duration() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}

// DurationMinutes возвращает длительность в целых минутах
func (e *Event) DurationMinutes() int {
	return int(e.Duration() / time.Minute)
}

// Overlaps reports whether [start, end) intersects the event interval.
// Touching intervals (one ends exactly when the other starts) do not overlap.
func (e *Event) Overlaps(start, end time.Time) bool {
	return e.StartTime.Before(end) && e.EndTime.After(start)
}

// Color возвращает цвет категории или цвет по умолчанию
func (e *Event) Color() string {
	if e.CategoryColor == "" {
		return DefaultEventColor
	}
	return e.CategoryColor
}

// EventFilter описывает выборку событий пользователя
type EventFilter struct {
	From       *time.Time // start_time >= From
	To         *time.Time // end_time <= To
	CategoryID *int64
}
