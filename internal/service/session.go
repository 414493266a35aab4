package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/time_tracker/internal/model"
	"github.com/Freeeeeet/time_tracker/internal/pkg/jwttoken"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LoginResult - созданная сессия и подписанный токен для cookie
type LoginResult struct {
	User    *model.User
	Session *model.Session
	Token   string
}

// Login проверяет пароль и открывает сессию.
// identifier - username или telegram id.
func (s *UserService) Login(ctx context.Context, identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, validationErr("username and password are required")
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, unauthorizedErr("invalid credentials")
	}

	if err := checkPassword(user, password); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	session := &model.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, err := jwttoken.New(session.ID, user.ID, session.CreatedAt, session.ExpiresAt, s.secret)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in",
		zap.Int64("user_id", user.ID),
		zap.String("session_id", session.ID.String()),
	)

	return &LoginResult{User: user, Session: session, Token: token}, nil
}

// Authenticate проверяет токен и возвращает пользователя живой сессии
func (s *UserService) Authenticate(ctx context.Context, token string) (*model.User, *model.Session, error) {
	if token == "" {
		return nil, nil, unauthorizedErr("authentication required")
	}

	sessionID, _, err := jwttoken.Verify(token, s.secret, s.now())
	if err != nil {
		return nil, nil, unauthorizedErr("invalid or expired session")
	}

	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, nil, fmt.Errorf("get session: %w", err)
	}
	if session == nil || session.IsExpired(s.now()) {
		return nil, nil, unauthorizedErr("invalid or expired session")
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, nil, unauthorizedErr("invalid or expired session")
	}

	return user, session, nil
}

// Logout закрывает сессию
func (s *UserService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// CleanupExpiredSessions удаляет истёкшие сессии, вызывается планировщиком
func (s *UserService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	removed, err := s.sessions.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	if removed > 0 {
		s.logger.Info("Expired sessions removed", zap.Int64("count", removed))
	}
	return removed, nil
}
