package model

import (
	"time"

	"github.com/google/uuid"
)

// Session представляет вход пользователя через веб (логин/пароль)
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired проверяет истекла ли сессия на момент now
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
