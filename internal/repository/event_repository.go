package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/time_tracker/internal/model"
	"github.com/Freeeeeet/time_tracker/internal/repository/base"
	"github.com/jackc/pgx/v5"
)

// События всегда читаются вместе с названием и цветом категории
const eventSelect = `
	SELECT e.id, e.user_id, e.category_id, e.title, e.description, e.start_time, e.end_time,
	       e.type, e.source, e.created_at,
	       COALESCE(c.name, ''), COALESCE(c.color, '')
	FROM events e
	LEFT JOIN categories c ON c.id = e.category_id
`

type EventRepository struct {
	*base.Repository
}

func NewEventRepository(b *base.Repository) *EventRepository {
	return &EventRepository{Repository: b}
}

// Create создаёт новое событие
func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
	query := `
		INSERT INTO events (user_id, category_id, title, description, start_time, end_time, type, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		event.UserID,
		event.CategoryID,
		event.Title,
		event.Description,
		event.StartTime.UTC(),
		event.EndTime.UTC(),
		event.Type,
		event.Source,
	).Scan(&event.ID, &event.CreatedAt)

	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	return nil
}

// GetByID получает событие пользователя по ID
func (r *EventRepository) GetByID(ctx context.Context, userID, id int64) (*model.Event, error) {
	query := eventSelect + ` WHERE e.id = $1 AND e.user_id = $2`

	event, err := scanEvent(r.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, fmt.Errorf("get event by id: %w", err)
	}
	return event, nil
}

// Update сохраняет все изменяемые поля события
func (r *EventRepository) Update(ctx context.Context, event *model.Event) error {
	query := `
		UPDATE events
		SET category_id = $1, title = $2, description = $3, start_time = $4, end_time = $5, type = $6
		WHERE id = $7 AND user_id = $8
	`

	affected, err := r.ExecAffected(
		ctx, query,
		event.CategoryID,
		event.Title,
		event.Description,
		event.StartTime.UTC(),
		event.EndTime.UTC(),
		event.Type,
		event.ID,
		event.UserID,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("update event: %w", pgx.ErrNoRows)
	}

	return nil
}

// Delete удаляет событие пользователя
func (r *EventRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM events WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete event: %w", err)
	}
	return affected > 0, nil
}

// List получает события пользователя по фильтру, отсортированные по началу
func (r *EventRepository) List(ctx context.Context, userID int64, filter model.EventFilter) ([]*model.Event, error) {
	conds := []string{"e.user_id = $1"}
	args := []any{userID}

	if filter.From != nil {
		args = append(args, filter.From.UTC())
		conds = append(conds, fmt.Sprintf("e.start_time >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, filter.To.UTC())
		conds = append(conds, fmt.Sprintf("e.end_time <= $%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conds = append(conds, fmt.Sprintf("e.category_id = $%d", len(args)))
	}

	query := eventSelect + ` WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY e.start_time, e.id`

	return r.queryEvents(ctx, query, args...)
}

// ListStartingBetween получает события, начинающиеся в [from, to)
func (r *EventRepository) ListStartingBetween(ctx context.Context, userID int64, from, to time.Time) ([]*model.Event, error) {
	query := eventSelect + `
		WHERE e.user_id = $1
		  AND e.start_time >= $2
		  AND e.start_time < $3
		ORDER BY e.start_time, e.id
	`

	return r.queryEvents(ctx, query, userID, from.UTC(), to.UTC())
}

// FindOverlap ищет событие того же типа, пересекающееся с [start, end).
// excludeID исключает само редактируемое событие (0 - ничего не исключать).
func (r *EventRepository) FindOverlap(ctx context.Context, userID int64, eventType model.EventType, start, end time.Time, excludeID int64) (*model.Event, error) {
	query := eventSelect + `
		WHERE e.user_id = $1
		  AND e.type = $2
		  AND e.start_time < $4
		  AND e.end_time > $3
		  AND e.id <> $5
		ORDER BY e.start_time
		LIMIT 1
	`

	event, err := scanEvent(r.QueryRow(ctx, query, userID, eventType, start.UTC(), end.UTC(), excludeID))
	if err != nil {
		return nil, fmt.Errorf("find overlapping event: %w", err)
	}
	return event, nil
}

// CountByCategory возвращает количество событий в категории
func (r *EventRepository) CountByCategory(ctx context.Context, userID, categoryID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM events WHERE user_id = $1 AND category_id = $2`
	if err := r.QueryRow(ctx, query, userID, categoryID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count events by category: %w", err)
	}
	return count, nil
}

// Counts считает события пользователя: всего, по типам и начинающиеся в [dayStart, dayEnd)
func (r *EventRepository) Counts(ctx context.Context, userID int64, dayStart, dayEnd time.Time) (model.EventCounts, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE type = 'plan'),
		       COUNT(*) FILTER (WHERE type = 'fact'),
		       COUNT(*) FILTER (WHERE start_time >= $2 AND start_time < $3)
		FROM events
		WHERE user_id = $1
	`

	var c model.EventCounts
	err := r.QueryRow(ctx, query, userID, dayStart.UTC(), dayEnd.UTC()).Scan(&c.Total, &c.Plan, &c.Fact, &c.Today)
	if err != nil {
		return model.EventCounts{}, fmt.Errorf("count events: %w", err)
	}
	return c, nil
}

func (r *EventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]*model.Event, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []*model.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.CategoryID,
		&e.Title,
		&e.Description,
		&e.StartTime,
		&e.EndTime,
		&e.Type,
		&e.Source,
		&e.CreatedAt,
		&e.CategoryName,
		&e.CategoryColor,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	e.StartTime = e.StartTime.UTC()
	e.EndTime = e.EndTime.UTC()
	return &e, nil
}
