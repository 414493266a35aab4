package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/time_tracker/internal/model"
	"github.com/google/uuid"
)

// Transactor выполняет fn в одной транзакции.
// Реализуется base.Repository.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID string) (*model.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*model.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type CategoryStore interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, userID, id int64) (*model.Category, error)
	GetByName(ctx context.Context, userID int64, name string) (*model.Category, error)
	FindByCode(ctx context.Context, userID int64, code string) (*model.Category, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.Category, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	Delete(ctx context.Context, userID, id int64) (bool, error)
}

type EventStore interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, userID, id int64) (*model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, userID, id int64) (bool, error)
	List(ctx context.Context, userID int64, filter model.EventFilter) ([]*model.Event, error)
	ListStartingBetween(ctx context.Context, userID int64, from, to time.Time) ([]*model.Event, error)
	FindOverlap(ctx context.Context, userID int64, eventType model.EventType, start, end time.Time, excludeID int64) (*model.Event, error)
	CountByCategory(ctx context.Context, userID, categoryID int64) (int, error)
	Counts(ctx context.Context, userID int64, dayStart, dayEnd time.Time) (model.EventCounts, error)
}

type TemplateStore interface {
	Create(ctx context.Context, template *model.Template) error
	ListByUser(ctx context.Context, userID int64) ([]*model.Template, error)
	Delete(ctx context.Context, userID, id int64) (bool, error)
}

type SessionStore interface {
	Create(ctx context.Context, session *model.Session) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
