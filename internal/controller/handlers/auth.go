package handlers

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/time_tracker/internal/model"
	"github.com/Freeeeeet/time_tracker/internal/service"
	"go.uber.org/zap"
)

type registerRequest struct {
	Username        string     `json:"username"`
	Password        string     `json:"password"`
	ConfirmPassword string     `json:"confirm_password"`
	Email           string     `json:"email"`
	TelegramID      FlexString `json:"telegram_id"`
}

type loginRequest struct {
	// Username может содержать и Telegram ID
	Username   string     `json:"username"`
	TelegramID FlexString `json:"telegram_id"`
	Password   string     `json:"password"`
}

type userResponse struct {
	Success bool        `json:"success"`
	User    *model.User `json:"user"`
}

type loginResponse struct {
	Success   bool        `json:"success"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.Register"

	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, op, err.Error())
		return
	}

	user, err := h.userService.Register(r.Context(), service.RegisterRequest{
		Username:        req.Username,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Email:           req.Email,
		TelegramID:      string(req.TelegramID),
	})
	if err != nil {
		h.writeError(w, op, err)
		return
	}

	h.logger.Info("User registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	h.writeJSON(w, http.StatusCreated, userResponse{Success: true, User: user})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.Login"

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, op, err.Error())
		return
	}

	identifier := req.Username
	if identifier == "" {
		identifier = string(req.TelegramID)
	}

	result, err := h.userService.Login(r.Context(), identifier, req.Password)
	if err != nil {
		h.writeError(w, op, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    result.Token,
		Path:     "/",
		Expires:  result.Session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("User logged in", zap.Int64("user_id", result.User.ID))
	h.writeJSON(w, http.StatusOK, loginResponse{
		Success:   true,
		Token:     result.Token,
		ExpiresAt: result.Session.ExpiresAt,
		User:      result.User,
	})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.Logout"

	if session := currentSession(r.Context()); session != nil {
		if err := h.userService.Logout(r.Context(), session.ID); err != nil {
			h.writeError(w, op, err)
			return
		}
	}

	h.clearSessionCookie(w)
	h.writeJSON(w, http.StatusOK, successResponse{Success: true, Message: "logged out"})
}

// DeleteAccount удаляет пользователя вместе с категориями, событиями, шаблонами и сессиями
func (h *Handlers) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.DeleteAccount"

	if err := h.userService.DeleteAccount(r.Context(), currentUser(r.Context()).ID); err != nil {
		h.writeError(w, op, err)
		return
	}

	h.clearSessionCookie(w)
	h.writeJSON(w, http.StatusOK, successResponse{Success: true, Message: "account deleted"})
}

func (h *Handlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, userResponse{Success: true, User: currentUser(r.Context())})
}
