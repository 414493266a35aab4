package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Freeeeeet/time_tracker/internal/model"
)

type StatsService struct {
	categories CategoryStore
	events     EventStore
	now        func() time.Time
}

func NewStatsService(categories CategoryStore, events EventStore) *StatsService {
	return &StatsService{
		categories: categories,
		events:     events,
		now:        time.Now,
	}
}

// Stats считает сводку пользователя. "Сегодня" - текущие сутки по UTC.
func (s *StatsService) Stats(ctx context.Context, userID int64) (*model.Stats, error) {
	categories, err := s.categories.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}

	now := s.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	counts, err := s.events.Counts(ctx, userID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}

	return &model.Stats{
		Categories:   categories,
		EventCounts:  counts,
		Productivity: productivity(counts.Fact, counts.Plan),
	}, nil
}

// productivity fact/plan в процентах с одним знаком после запятой
func productivity(fact, plan int) float64 {
	if plan <= 0 {
		return 0
	}
	return math.Round(float64(fact)/float64(plan)*1000) / 10
}
