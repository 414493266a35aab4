package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/time_tracker/internal/config"
	"github.com/Freeeeeet/time_tracker/internal/controller"
	"github.com/Freeeeeet/time_tracker/internal/controller/handlers"
	"github.com/Freeeeeet/time_tracker/internal/repository"
	"github.com/Freeeeeet/time_tracker/internal/repository/base"
	"github.com/Freeeeeet/time_tracker/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	dbConnectTimeout = 10 * time.Second
	dbMaxConns       = 10
)

// App связывает все компоненты приложения
type App struct {
	cfg       *config.Config
	pool      *pgxpool.Pool
	migrator  *Migrator
	http      *controller.HTTPController
	scheduler *Scheduler
	logger    *zap.Logger
}

// New подключается к БД, применяет миграции и собирает зависимости
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	pool, err := newPool(ctx, cfg.GetDBDSN())
	if err != nil {
		return nil, err
	}
	logger.Info("Connected to database")

	migrator, err := NewMigrator(pool, cfg.MigrationsDir, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	if err := migrator.Run(ctx); err != nil {
		_ = migrator.Close()
		pool.Close()
		return nil, err
	}

	// Репозитории
	baseRepo := base.NewRepository(pool)
	userRepo := repository.NewUserRepository(baseRepo)
	categoryRepo := repository.NewCategoryRepository(baseRepo, logger)
	eventRepo := repository.NewEventRepository(baseRepo)
	templateRepo := repository.NewTemplateRepository(baseRepo)
	sessionRepo := repository.NewSessionRepository(baseRepo)

	// Сервисы
	categoryService := service.NewCategoryService(baseRepo, categoryRepo, eventRepo, logger)
	eventService := service.NewEventService(baseRepo, eventRepo, categoryRepo, logger)
	templateService := service.NewTemplateService(templateRepo, logger)
	statsService := service.NewStatsService(categoryRepo, eventRepo)
	userService := service.NewUserService(
		baseRepo,
		userRepo,
		sessionRepo,
		categoryService,
		cfg.SecretKey,
		cfg.SessionTTL,
		logger,
	)

	h := handlers.NewHandlers(
		userService,
		categoryService,
		eventService,
		templateService,
		statsService,
		pool,
		handlers.Options{
			SecureCookies: cfg.IsProduction(),
			PublicURL:     cfg.PublicURL,
		},
		logger,
	)

	return &App{
		cfg:       cfg,
		pool:      pool,
		migrator:  migrator,
		http:      controller.NewHTTPController(cfg.HTTPAddr(), h, cfg.CORSOrigins, logger),
		scheduler: NewScheduler(userService, logger),
		logger:    logger,
	}, nil
}

func newPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	poolCfg.MaxConns = dbMaxConns

	ctx, cancel := context.WithTimeout(ctx, dbConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Run запускает фоновые задачи и HTTP сервер, блокируется до отмены ctx
func (a *App) Run(ctx context.Context) error {
	if err := a.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.http.Start()
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("Shutdown signal received")
		return nil
	case err := <-errCh:
		return err
	}
}

// Stop останавливает сервер и освобождает ресурсы
func (a *App) Stop(ctx context.Context) error {
	var errs []error

	if err := a.http.Stop(ctx); err != nil {
		errs = append(errs, err)
	}
	a.scheduler.Stop()

	if err := a.migrator.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close migrator: %w", err))
	}
	a.pool.Close()

	a.logger.Info("Application stopped")
	return errors.Join(errs...)
}
