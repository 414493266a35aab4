package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Freeeeeet/time_tracker/internal/model"
	"github.com/Freeeeeet/time_tracker/internal/repository/base"
	"go.uber.org/zap"
)

// DefaultQuickLogMinutes длительность быстрого события из бота
const DefaultQuickLogMinutes = 90

// maxEventTitleLen ограничение колонки events.title
const maxEventTitleLen = 200

type CreateEventRequest struct {
	CategoryID  *int64
	StartTime   string
	EndTime     string
	Type        model.EventType // пусто - plan
	Title       string
	Description string
	Source      model.EventSource // пусто - web
}

// UpdateEventRequest - частичное обновление: nil поля не меняются
type UpdateEventRequest struct {
	CategoryID  *int64
	StartTime   *string
	EndTime     *string
	Type        *model.EventType
	Title       *string
	Description *string
}

// BotEventRequest событие из бота со свободным вводом времени
type BotEventRequest struct {
	CategoryID *int64
	Time       string          // "14:30-16:00", "2 часа", "90 минут"
	Type       model.EventType // пусто - fact
	Title      string
}

type EventService struct {
	tx         Transactor
	events     EventStore
	categories CategoryStore
	logger     *zap.Logger
	now        func() time.Time
}

func NewEventService(tx Transactor, events EventStore, categories CategoryStore, logger *zap.Logger) *EventService {
	return &EventService{
		tx:         tx,
		events:     events,
		categories: categories,
		logger:     logger,
		now:        time.Now,
	}
}

// Create создаёт событие из веб-запроса
func (s *EventService) Create(ctx context.Context, userID int64, req CreateEventRequest) (*model.Event, error) {
	var missing []string
	if req.CategoryID == nil {
		missing = append(missing, "category_id")
	}
	if strings.TrimSpace(req.StartTime) == "" {
		missing = append(missing, "start_time")
	}
	if strings.TrimSpace(req.EndTime) == "" {
		missing = append(missing, "end_time")
	}
	if len(missing) > 0 {
		return nil, validationErr("missing required fields: %s", strings.Join(missing, ", "))
	}

	eventType, err := normalizeType(req.Type, model.EventTypePlan)
	if err != nil {
		return nil, err
	}

	source := req.Source
	if source == "" {
		source = model.EventSourceWeb
	}
	if !source.IsValid() {
		return nil, validationErr("invalid source: %s", source)
	}

	event := &model.Event{
		UserID:      userID,
		CategoryID:  req.CategoryID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Type:        eventType,
		Source:      source,
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.attachCategory(ctx, event, *req.CategoryID); err != nil {
			return err
		}

		start, err := ParseTimestamp(req.StartTime)
		if err != nil {
			return validationErr("invalid start_time: %v", err)
		}
		end, err := ParseTimestamp(req.EndTime)
		if err != nil {
			return validationErr("invalid end_time: %v", err)
		}
		event.StartTime, event.EndTime = start, end

		return s.insert(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	return event, nil
}

// Update применяет частичное изменение к событию пользователя
func (s *EventService) Update(ctx context.Context, userID, eventID int64, req UpdateEventRequest) (*model.Event, error) {
	var updated *model.Event

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		event, err := s.events.GetByID(ctx, userID, eventID)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if event == nil {
			return notFoundErr("event not found")
		}

		if req.CategoryID != nil {
			if err := s.attachCategory(ctx, event, *req.CategoryID); err != nil {
				return err
			}
		}
		if req.StartTime != nil {
			start, err := ParseTimestamp(*req.StartTime)
			if err != nil {
				return validationErr("invalid start_time: %v", err)
			}
			event.StartTime = start
		}
		if req.EndTime != nil {
			end, err := ParseTimestamp(*req.EndTime)
			if err != nil {
				return validationErr("invalid end_time: %v", err)
			}
			event.EndTime = end
		}
		if req.Type != nil {
			eventType, err := normalizeType(*req.Type, "")
			if err != nil {
				return err
			}
			event.Type = eventType
		}
		if req.Title != nil {
			event.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			event.Description = strings.TrimSpace(*req.Description)
		}

		if err := s.validateSlot(ctx, event); err != nil {
			return err
		}

		if err := s.events.Update(ctx, event); err != nil {
			if base.IsCheckViolation(err) {
				return validationErr("end_time must be after start_time")
			}
			return fmt.Errorf("update event: %w", err)
		}

		updated = event
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Event updated",
		zap.Int64("event_id", eventID),
		zap.Int64("user_id", userID),
	)

	return updated, nil
}

// Delete удаляет событие пользователя
func (s *EventService) Delete(ctx context.Context, userID, eventID int64) error {
	deleted, err := s.events.Delete(ctx, userID, eventID)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if !deleted {
		return notFoundErr("event not found")
	}

	s.logger.Info("Event deleted",
		zap.Int64("event_id", eventID),
		zap.Int64("user_id", userID),
	)
	return nil
}

// List получает события пользователя по фильтру
func (s *EventService) List(ctx context.Context, userID int64, filter model.EventFilter) ([]*model.Event, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, validationErr("end_date must not be before start_date")
	}

	events, err := s.events.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Week собирает события ISO-недели, разложенные по дням и типам
func (s *EventService) Week(ctx context.Context, userID int64, year, week int) (*model.WeekView, error) {
	rng, err := model.ISOWeekRange(year, week)
	if err != nil {
		return nil, validationErr("invalid week: %v", err)
	}
	return s.weekView(ctx, userID, rng)
}

// WeekByID то же что Week, но по идентификатору "2025-W52"
func (s *EventService) WeekByID(ctx context.Context, userID int64, weekID string) (*model.WeekView, error) {
	rng, err := model.ParseWeekID(weekID)
	if err != nil {
		return nil, validationErr("invalid week: %v", err)
	}
	return s.weekView(ctx, userID, rng)
}

// CurrentWeek неделя, содержащая текущий момент
func (s *EventService) CurrentWeek(ctx context.Context, userID int64) (*model.WeekView, error) {
	return s.weekView(ctx, userID, model.WeekOf(s.now()))
}

func (s *EventService) weekView(ctx context.Context, userID int64, rng model.WeekRange) (*model.WeekView, error) {
	events, err := s.events.ListStartingBetween(ctx, userID, rng.Start, rng.Next())
	if err != nil {
		return nil, fmt.Errorf("get week events: %w", err)
	}
	return model.BuildWeekView(rng, events), nil
}

// CreateFromExpression создаёт событие из бота по свободному вводу времени
func (s *EventService) CreateFromExpression(ctx context.Context, userID int64, req BotEventRequest) (*model.Event, error) {
	if req.CategoryID == nil {
		return nil, validationErr("missing required fields: category_id")
	}

	eventType, err := normalizeType(req.Type, model.EventTypeFact)
	if err != nil {
		return nil, err
	}

	start, end, err := ParseTimeExpression(req.Time, s.now())
	if err != nil {
		return nil, validationErr("invalid time format: %v", err)
	}

	event := &model.Event{
		UserID:     userID,
		CategoryID: req.CategoryID,
		Title:      strings.TrimSpace(req.Title),
		StartTime:  start,
		EndTime:    end,
		Type:       eventType,
		Source:     model.EventSourceTelegram,
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		if err := s.attachCategory(ctx, event, *req.CategoryID); err != nil {
			return err
		}
		return s.insert(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	return event, nil
}

// QuickLog фиксирует факт по коду категории: minutes минут начиная с текущего момента
func (s *EventService) QuickLog(ctx context.Context, userID int64, code string, minutes int) (*model.Event, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, validationErr("missing required fields: code")
	}
	if minutes == 0 {
		minutes = DefaultQuickLogMinutes
	}
	if minutes < 0 {
		return nil, validationErr("duration must be positive")
	}

	start := s.now().UTC().Truncate(time.Second)
	event := &model.Event{
		UserID:    userID,
		StartTime: start,
		EndTime:   start.Add(time.Duration(minutes) * time.Minute),
		Type:      model.EventTypeFact,
		Source:    model.EventSourceTelegramQuick,
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		category, err := s.categories.FindByCode(ctx, userID, code)
		if err != nil {
			return fmt.Errorf("find category by code: %w", err)
		}
		if category == nil {
			return notFoundErr("category not found for code: %s", code)
		}
		event.CategoryID = &category.ID
		event.CategoryName = category.Name
		event.CategoryColor = category.Color

		return s.insert(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	return event, nil
}

// attachCategory проверяет что категория принадлежит пользователю и привязывает её
func (s *EventService) attachCategory(ctx context.Context, event *model.Event, categoryID int64) error {
	category, err := s.categories.GetByID(ctx, event.UserID, categoryID)
	if err != nil {
		return fmt.Errorf("get category: %w", err)
	}
	if category == nil {
		return notFoundErr("category not found")
	}

	event.CategoryID = &category.ID
	event.CategoryName = category.Name
	event.CategoryColor = category.Color
	return nil
}

// validateSlot проверяет поля, порядок времени и пересечения с событиями того же типа
func (s *EventService) validateSlot(ctx context.Context, event *model.Event) error {
	if utf8.RuneCountInString(event.Title) > maxEventTitleLen {
		return validationErr("title must be at most %d characters", maxEventTitleLen)
	}
	if !event.EndTime.After(event.StartTime) {
		return validationErr("end_time must be after start_time")
	}

	overlap, err := s.events.FindOverlap(ctx, event.UserID, event.Type, event.StartTime, event.EndTime, event.ID)
	if err != nil {
		return fmt.Errorf("check overlap: %w", err)
	}
	if overlap != nil {
		return conflictErr(overlap.ID, "event overlaps with existing %s event #%d (%s - %s)",
			event.Type, overlap.ID,
			overlap.StartTime.Format(time.RFC3339), overlap.EndTime.Format(time.RFC3339))
	}
	return nil
}

func (s *EventService) insert(ctx context.Context, event *model.Event) error {
	if err := s.validateSlot(ctx, event); err != nil {
		return err
	}

	if err := s.events.Create(ctx, event); err != nil {
		if base.IsCheckViolation(err) {
			return validationErr("end_time must be after start_time")
		}
		return fmt.Errorf("create event: %w", err)
	}

	s.logger.Info("Event created",
		zap.Int64("event_id", event.ID),
		zap.Int64("user_id", event.UserID),
		zap.String("type", string(event.Type)),
		zap.String("source", string(event.Source)),
		zap.Time("start", event.StartTime),
		zap.Time("end", event.EndTime),
	)
	return nil
}

func normalizeType(t, fallback model.EventType) (model.EventType, error) {
	t = model.EventType(strings.ToLower(strings.TrimSpace(string(t))))
	if t == "" {
		t = fallback
	}
	if !t.IsValid() {
		return "", validationErr("type must be one of: plan, fact")
	}
	return t, nil
}
