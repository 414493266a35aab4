package service

import (
	"time"

	"github.com/Freeeeeet/time_tracker/internal/repository/memory"
	"go.uber.org/zap"
)

// testServices собирает сервисы поверх одного хранилища в памяти
type testServices struct {
	store      *memory.Store
	categories *CategoryService
	events     *EventService
	templates  *TemplateService
	stats      *StatsService
	users      *UserService
}

func newTestServices(now time.Time) *testServices {
	store := memory.New()
	logger := zap.NewNop()
	clock := func() time.Time { return now }

	categories := NewCategoryService(store.Tx(), store.Categories(), store.Events(), logger)
	events := NewEventService(store.Tx(), store.Events(), store.Categories(), logger)
	events.now = clock
	stats := NewStatsService(store.Categories(), store.Events())
	stats.now = clock
	users := NewUserService(store.Tx(), store.Users(), store.Sessions(), categories, "test-secret", time.Hour, logger)
	users.now = clock

	return &testServices{
		store:      store,
		categories: categories,
		events:     events,
		templates:  NewTemplateService(store.Templates(), logger),
		stats:      stats,
		users:      users,
	}
}

func (s *testServices) userCount() int {
	n, _, _, _, _ := s.store.Totals()
	return n
}

func (s *testServices) categoryCount() int {
	_, n, _, _, _ := s.store.Totals()
	return n
}

func (s *testServices) eventCount() int {
	_, _, n, _, _ := s.store.Totals()
	return n
}

func (s *testServices) sessionCount() int {
	_, _, _, _, n := s.store.Totals()
	return n
}
