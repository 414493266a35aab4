package model

// EventCounts агрегаты по событиям пользователя
type EventCounts struct {
	Total int `json:"total_events"`
	Plan  int `json:"plan_events"`
	Fact  int `json:"fact_events"`
	Today int `json:"today_events"`
}

type Stats struct {
	Categories int `json:"categories"`
	EventCounts
	Productivity float64 `json:"productivity"` // fact / plan * 100, округлено до 0.1
}
