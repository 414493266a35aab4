package handlers

import (
	"context"
	"time"

	"github.com/Freeeeeet/time_tracker/internal/service"
	"go.uber.org/zap"
)

// HealthChecker проверяет доступность БД (pgxpool.Pool)
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Handlers содержит все зависимости HTTP обработчиков
type Handlers struct {
	userService     *service.UserService
	categoryService *service.CategoryService
	eventService    *service.EventService
	templateService *service.TemplateService
	statsService    *service.StatsService
	health          HealthChecker
	opts            Options
	logger          *zap.Logger
	now             func() time.Time
}

// Options настройки HTTP слоя
type Options struct {
	// SecureCookies выставляет флаг Secure у cookie сессии (production)
	SecureCookies bool
	// PublicURL адрес веб-интерфейса, используется в ссылке на регистрацию для бота
	PublicURL string
}

// NewHandlers создаёт обработчики. health может быть nil.
func NewHandlers(
	userService *service.UserService,
	categoryService *service.CategoryService,
	eventService *service.EventService,
	templateService *service.TemplateService,
	statsService *service.StatsService,
	health HealthChecker,
	opts Options,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		userService:     userService,
		categoryService: categoryService,
		eventService:    eventService,
		templateService: templateService,
		statsService:    statsService,
		health:          health,
		opts:            opts,
		logger:          logger,
		now:             time.Now,
	}
}
