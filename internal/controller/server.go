package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"slices"
	"strings"
	"time"

	"github.com/Freeeeeet/time_tracker/internal/controller/handlers"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// HTTPController HTTP сервер JSON API
type HTTPController struct {
	server   *http.Server
	handlers *handlers.Handlers
	origins  []string
	logger   *zap.Logger
}

func NewHTTPController(addr string, h *handlers.Handlers, corsOrigins []string, logger *zap.Logger) *HTTPController {
	c := &HTTPController{
		handlers: h,
		origins:  corsOrigins,
		logger:   logger,
	}

	c.server = &http.Server{
		Addr:              addr,
		Handler:           c.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	return c
}

// Routes собирает маршрутизатор со всеми middleware
func (c *HTTPController) Routes() http.Handler {
	h := c.handlers
	router := http.NewServeMux()

	// Авторизация
	router.HandleFunc("POST /api/v1/auth/register", h.Register)
	router.HandleFunc("POST /api/v1/auth/login", h.Login)
	router.HandleFunc("POST /api/v1/auth/logout", h.RequireSession(h.Logout))
	router.HandleFunc("GET /api/v1/me", h.RequireSession(h.Me))
	router.HandleFunc("DELETE /api/v1/me", h.RequireSession(h.DeleteAccount))

	// Категории
	router.HandleFunc("GET /api/v1/categories", h.RequireSession(h.ListCategories))
	router.HandleFunc("POST /api/v1/categories", h.RequireSession(h.CreateCategory))
	router.HandleFunc("DELETE /api/v1/categories/{id}", h.RequireSession(h.DeleteCategory))

	// События
	router.HandleFunc("GET /api/v1/events", h.RequireSession(h.ListEvents))
	router.HandleFunc("POST /api/v1/events", h.RequireSession(h.CreateEvent))
	router.HandleFunc("PUT /api/v1/events/{id}", h.RequireSession(h.UpdateEvent))
	router.HandleFunc("DELETE /api/v1/events/{id}", h.RequireSession(h.DeleteEvent))
	router.HandleFunc("GET /api/v1/events/week", h.RequireSession(h.Week))
	router.HandleFunc("GET /api/v1/events/week/{week_id}", h.RequireSession(h.WeekByID))
	router.HandleFunc("GET /api/v1/events/week/{week_id}/image", h.RequireSession(h.WeekImage))
	router.HandleFunc("GET /api/v1/events/export.ics", h.RequireSession(h.ExportICS))

	// Шаблоны
	router.HandleFunc("GET /api/v1/templates", h.RequireSession(h.ListTemplates))
	router.HandleFunc("POST /api/v1/templates", h.RequireSession(h.CreateTemplate))
	router.HandleFunc("DELETE /api/v1/templates/{id}", h.RequireSession(h.DeleteTemplate))

	router.HandleFunc("GET /api/v1/stats", h.RequireSession(h.Stats))

	// Бот
	router.HandleFunc("POST /api/v1/telegram/auth", h.TelegramAuth)
	router.HandleFunc("GET /api/v1/telegram/categories", h.RequireTelegram(h.TelegramCategories))
	router.HandleFunc("POST /api/v1/telegram/events", h.RequireTelegram(h.TelegramCreateEvent))
	router.HandleFunc("POST /api/v1/telegram/quick", h.RequireTelegram(h.TelegramQuickLog))

	router.HandleFunc("GET /api/health", h.Health)

	return c.recoverer(c.accessLog(c.cors(router)))
}

// Start блокируется до остановки сервера
func (c *HTTPController) Start() error {
	c.logger.Info("HTTP server started", zap.String("addr", c.server.Addr))

	if err := c.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

// Stop дожидается завершения активных запросов
func (c *HTTPController) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := c.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	c.logger.Info("HTTP server stopped")
	return nil
}

func (c *HTTPController) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if origin != "" && slices.Contains(c.origins, origin) {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers",
				strings.Join([]string{"Origin", "Content-Type", "Authorization", "Accept", handlers.TelegramIDHeader}, ", "))
			w.Header().Set("Access-Control-Max-Age", "43200")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (c *HTTPController) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		c.logger.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

// recoverer превращает панику обработчика в 500
func (c *HTTPController) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				c.logger.Error("Panic recovered",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path),
					zap.ByteString("stack", debug.Stack()))

				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"internal server error"}` + "\n"))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
