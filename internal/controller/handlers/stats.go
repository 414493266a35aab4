package handlers

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/time_tracker/internal/model"
	"go.uber.org/zap"
)

type statsResponse struct {
	Success bool         `json:"success"`
	Stats   *model.Stats `json:"stats"`
}

func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.Stats"

	stats, err := h.statsService.Stats(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		h.writeError(w, op, err)
		return
	}

	h.writeJSON(w, http.StatusOK, statsResponse{Success: true, Stats: stats})
}

type healthResponse struct {
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
	Database      string `json:"database"`
	Authenticated bool   `json:"authenticated"`
}

// Health liveness проба, проверяет соединение с БД
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC().Format(time.RFC3339),
		Database:  "connected",
	}

	if token := sessionToken(r); token != "" {
		if _, _, err := h.userService.Authenticate(r.Context(), token); err == nil {
			resp.Authenticated = true
		}
	}

	status := http.StatusOK
	if h.health != nil {
		if err := h.health.Ping(r.Context()); err != nil {
			h.logger.Warn("Database ping failed", zap.Error(err))
			resp.Status = "unhealthy"
			resp.Database = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}

	h.writeJSON(w, status, resp)
}
