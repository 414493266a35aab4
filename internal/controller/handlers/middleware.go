package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/Freeeeeet/time_tracker/internal/model"
	"go.uber.org/zap"
)

type ctxKey int

const (
	userKey ctxKey = iota
	sessionKey
)

// RequireSession пропускает запрос только с действующей сессией.
// Токен берётся из cookie session или заголовка Authorization: Bearer.
func (h *Handlers) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RequireSession"

		user, session, err := h.userService.Authenticate(r.Context(), sessionToken(r))
		if err != nil {
			h.writeError(w, op, err)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		ctx = context.WithValue(ctx, sessionKey, session)
		next(w, r.WithContext(ctx))
	}
}

// RequireTelegram определяет пользователя бота по Telegram ID
func (h *Handlers) RequireTelegram(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RequireTelegram"

		telegramID := strings.TrimSpace(r.Header.Get(TelegramIDHeader))
		if telegramID == "" {
			telegramID = strings.TrimSpace(r.URL.Query().Get(TelegramIDParam))
		}

		user, err := h.userService.LookupByTelegramID(r.Context(), telegramID)
		if err != nil {
			h.writeError(w, op, err)
			return
		}

		h.logger.Debug("Telegram user resolved",
			zap.Int64("user_id", user.ID),
			zap.String("telegram_id", telegramID))

		next(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	}
}

func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// currentUser достаёт пользователя, положенного middleware
func currentUser(ctx context.Context) *model.User {
	user, _ := ctx.Value(userKey).(*model.User)
	return user
}

func currentSession(ctx context.Context) *model.Session {
	session, _ := ctx.Value(sessionKey).(*model.Session)
	return session
}
