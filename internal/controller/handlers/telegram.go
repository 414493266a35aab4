package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Freeeeeet/time_tracker/internal/controller/formatting"
	"github.com/Freeeeeet/time_tracker/internal/model"
	"github.com/Freeeeeet/time_tracker/internal/service"
	"go.uber.org/zap"
)

type telegramAuthRequest struct {
	TelegramID FlexString `json:"telegram_id"`
}

type telegramAuthResponse struct {
	Status        string `json:"status"`
	UserID        int64  `json:"user_id"`
	Username      string `json:"username"`
	HasCategories bool   `json:"has_categories"`
	Message       string `json:"message"`
}

type needsRegistrationResponse struct {
	Status          string `json:"status"`
	Message         string `json:"message"`
	Error           string `json:"error"`
	RegistrationURL string `json:"registration_url,omitempty"`
}

type telegramCategory struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// quickReply кнопка inline-клавиатуры бота
type quickReply struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type telegramCategoriesResponse struct {
	Categories   []telegramCategory `json:"categories"`
	QuickReplies []quickReply       `json:"quick_replies"`
	Message      string             `json:"message"`
}

type telegramEventRequest struct {
	CategoryID *FlexID         `json:"category_id"`
	Time       string          `json:"time"`
	Type       model.EventType `json:"type"`
	Title      string          `json:"title"`
}

type telegramEventResponse struct {
	Status  string `json:"status"`
	EventID int64  `json:"event_id"`
	Message string `json:"message"`
}

type quickLogRequest struct {
	Code     string   `json:"code"`
	Duration *FlexInt `json:"duration"`
}

type quickLogResponse struct {
	Status   string `json:"status"`
	Category string `json:"category"`
	Duration int    `json:"duration"`
	EventID  int64  `json:"event_id"`
	Message  string `json:"message"`
}

// TelegramAuth проверяет, привязан ли Telegram ID к аккаунту
func (h *Handlers) TelegramAuth(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.TelegramAuth"

	var req telegramAuthRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, op, err.Error())
		return
	}
	telegramID := strings.TrimSpace(string(req.TelegramID))
	if telegramID == "" {
		h.badRequest(w, op, "telegram_id required")
		return
	}

	user, err := h.userService.LookupByTelegramID(r.Context(), telegramID)
	if err != nil {
		if statusFor(err) != http.StatusNotFound {
			h.writeError(w, op, err)
			return
		}
		msg, _ := service.PublicMessage(err)
		resp := needsRegistrationResponse{
			Status:  "needs_registration",
			Message: "Please complete registration via web interface first",
			Error:   msg,
		}
		if h.opts.PublicURL != "" {
			resp.RegistrationURL = strings.TrimRight(h.opts.PublicURL, "/") +
				"/register?telegram_id=" + url.QueryEscape(telegramID)
		}
		h.writeJSON(w, http.StatusNotFound, resp)
		return
	}

	count, err := h.categoryService.Count(r.Context(), user.ID)
	if err != nil {
		h.writeError(w, op, err)
		return
	}

	stats, err := h.statsService.Stats(r.Context(), user.ID)
	if err != nil {
		h.writeError(w, op, err)
		return
	}

	h.writeJSON(w, http.StatusOK, telegramAuthResponse{
		Status:        "authenticated",
		UserID:        user.ID,
		Username:      user.Username,
		HasCategories: count > 0,
		Message: fmt.Sprintf("%s: %d %s, сегодня %d %s", user.Username,
			count, formatting.PluralizeCategories(count),
			stats.Today, formatting.PluralizeEvents(stats.Today)),
	})
}

// TelegramCategories категории пользователя и кнопки для inline-клавиатуры
func (h *Handlers) TelegramCategories(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.TelegramCategories"

	categories, err := h.categoryService.List(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		h.writeError(w, op, err)
		return
	}

	resp := telegramCategoriesResponse{
		Categories:   make([]telegramCategory, 0, len(categories)),
		QuickReplies: make([]quickReply, 0, min(len(categories), MaxQuickReplies)),
	}
	for i, c := range categories {
		resp.Categories = append(resp.Categories, telegramCategory{ID: c.ID, Name: c.Name, Color: c.Color})
		if i < MaxQuickReplies {
			resp.QuickReplies = append(resp.QuickReplies, quickReply{
				Text:         c.Name,
				CallbackData: fmt.Sprintf("cat_%d", c.ID),
			})
		}
	}
	resp.Message = fmt.Sprintf("%d %s", len(categories), formatting.PluralizeCategories(len(categories)))

	h.writeJSON(w, http.StatusOK, resp)
}

// TelegramCreateEvent событие из бота: "14:30-16:00", "2 часа", "90 минут"
func (h *Handlers) TelegramCreateEvent(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.TelegramCreateEvent"

	var req telegramEventRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, op, err.Error())
		return
	}

	user := currentUser(r.Context())
	event, err := h.eventService.CreateFromExpression(r.Context(), user.ID, service.BotEventRequest{
		CategoryID: req.CategoryID.Ptr(),
		Time:       req.Time,
		Type:       req.Type,
		Title:      req.Title,
	})
	if err != nil {
		h.writeError(w, op, err)
		return
	}

	h.logger.Info("Telegram event created",
		zap.Int64("user_id", user.ID),
		zap.Int64("event_id", event.ID))
	h.writeJSON(w, http.StatusCreated, telegramEventResponse{
		Status:  "success",
		EventID: event.ID,
		Message: fmt.Sprintf("Event added: %s (%s, %s, %s)",
			event.CategoryName, event.Type, formatting.FormatDateTime(event.StartTime),
			formatting.FormatDuration(event.DurationMinutes())),
	})
}

// TelegramQuickLog факт по коду категории, по умолчанию 90 минут
func (h *Handlers) TelegramQuickLog(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.TelegramQuickLog"

	var req quickLogRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, op, err.Error())
		return
	}

	minutes := 0
	if req.Duration != nil {
		minutes = int(*req.Duration)
	}

	user := currentUser(r.Context())
	event, err := h.eventService.QuickLog(r.Context(), user.ID, req.Code, minutes)
	if err != nil {
		h.writeError(w, op, err)
		return
	}

	h.writeJSON(w, http.StatusOK, quickLogResponse{
		Status:   "success",
		Category: event.CategoryName,
		Duration: event.DurationMinutes(),
		EventID:  event.ID,
		Message: fmt.Sprintf("%s: %s %s %s", event.CategoryName,
			formatting.FormatDuration(event.DurationMinutes()),
			formatting.FormatDate(event.StartTime), formatting.FormatTimeRange(event.StartTime, event.EndTime)),
	})
}
