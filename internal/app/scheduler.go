package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	sessionCleanupSpec    = "@hourly"
	sessionCleanupTimeout = 30 * time.Second
)

// SessionCleaner удаляет истёкшие сессии
type SessionCleaner interface {
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	cron    *cron.Cron
	cleaner SessionCleaner
	logger  *zap.Logger
}

// NewScheduler создаёт новый планировщик (время UTC)
func NewScheduler(cleaner SessionCleaner, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		cleaner: cleaner,
		logger:  logger,
	}
}

// Start запускает фоновые задачи. Первая очистка выполняется сразу.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("Starting background scheduler")

	if _, err := s.cron.AddFunc(sessionCleanupSpec, func() { s.cleanupSessions(ctx) }); err != nil {
		return err
	}

	go s.cleanupSessions(ctx)

	s.cron.Start()
	return nil
}

// Stop останавливает планировщик и ждёт завершения запущенных задач
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) cleanupSessions(parent context.Context) {
	if parent.Err() != nil {
		return
	}

	ctx, cancel := context.WithTimeout(parent, sessionCleanupTimeout)
	defer cancel()

	removed, err := s.cleaner.CleanupExpiredSessions(ctx)
	if err != nil {
		s.logger.Error("Failed to clean up expired sessions", zap.Error(err))
		return
	}

	s.logger.Debug("Session cleanup completed", zap.Int64("removed", removed))
}
