package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Freeeeeet/time_tracker/internal/controller/ical"
	"github.com/Freeeeeet/time_tracker/internal/controller/render"
	"github.com/Freeeeeet/time_tracker/internal/model"
	"github.com/Freeeeeet/time_tracker/internal/service"
	"go.uber.org/zap"
)

type createEventRequest struct {
	CategoryID  *FlexID         `json:"category_id"`
	StartTime   string          `json:"start_time"`
	EndTime     string          `json:"end_time"`
	Type        model.EventType `json:"type"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	// bulk и template присылает фронтенд при массовом создании
	Source model.EventSource `json:"source"`
}

type updateEventRequest struct {
	CategoryID  *FlexID          `json:"category_id"`
	StartTime   *string          `json:"start_time"`
	EndTime     *string          `json:"end_time"`
	Type        *model.EventType `json:"type"`
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
}

// eventJSON событие с вычисленной длительностью в минутах
type eventJSON struct {
	*model.Event
	Duration int `json:"duration"`
}

type eventResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Event   eventJSON `json:"event"`
}

type weekInfo struct {
	Year      int    `json:"year"`
	Week      int    `json:"week"`
	ID        string `json:"id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type weekResponse struct {
	Success     bool              `json:"success"`
	Week        weekInfo          `json:"week"`
	Events      []eventJSON       `json:"events"`
	Days        []model.DayBucket `json:"days"`
	PlanMinutes int               `json:"plan_minutes"`
	FactMinutes int               `json:"fact_minutes"`
}

func toEventJSON(e *model.Event) eventJSON {
	return eventJSON{Event: e, Duration: e.DurationMinutes()}
}

func toEventsJSON(events []*model.Event) []eventJSON {
	out := make([]eventJSON, 0, len(events))
	for _, e := range events {
		out = append(out, toEventJSON(e))
	}
	return out
}

func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ListEvents"

	filter, err := eventFilter(r)
	if err != nil {
		h.badRequest(w, op, err.Error())
		return
	}

	events, err := h.eventService.List(r.Context(), currentUser(r.Context()).ID, filter)
	if err != nil {
		h.writeError(w, op, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toEventsJSON(events))
}

func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.CreateEvent"

	var req createEventRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, op, err.Error())
		return
	}

	user := currentUser(r.Context())
	event, err := h.eventService.Create(r.Context(), user.ID, service.CreateEventRequest{
		CategoryID:  req.CategoryID.Ptr(),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		Source:      req.Source,
	})
	if err != nil {
		h.writeError(w, op, err)
		return
	}

	h.logger.Info("Event created",
		zap.Int64("user_id", user.ID),
		zap.Int64("event_id", event.ID),
		zap.String("type", string(event.Type)))
	h.writeJSON(w, http.StatusCreated, eventResponse{
		Success: true,
		Message: "event created",
		Event:   toEventJSON(event),
	})
}

func (h *Handlers) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.UpdateEvent"

	id, err := pathID(r, "id")
	if err != nil {
		h.badRequest(w, op, err.Error())
		return
	}

	var req updateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, op, err.Error())
		return
	}

	event, err := h.eventService.Update(r.Context(), currentUser(r.Context()).ID, id, service.UpdateEventRequest{
		CategoryID:  req.CategoryID.Ptr(),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.writeError(w, op, err)
		return
	}

	h.writeJSON(w, http.StatusOK, eventResponse{
		Success: true,
		Message: "event updated",
		Event:   toEventJSON(event),
	})
}

func (h *Handlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.DeleteEvent"

	id, err := pathID(r, "id")
	if err != nil {
		h.badRequest(w, op, err.Error())
		return
	}

	if err := h.eventService.Delete(r.Context(), currentUser(r.Context()).ID, id); err != nil {
		h.writeError(w, op, err)
		return
	}

	h.writeJSON(w, http.StatusOK, successResponse{Success: true, Message: "event deleted"})
}

// WeekByID неделя по идентификатору YYYY-Www
func (h *Handlers) WeekByID(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.WeekByID"

	view, err := h.eventService.WeekByID(r.Context(), currentUser(r.Context()).ID, r.PathValue("week_id"))
	if err != nil {
		h.writeError(w, op, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toWeekResponse(view))
}

// Week неделя по ?year=&week=, без параметров - текущая
func (h *Handlers) Week(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.Week"

	q := r.URL.Query()
	rawYear, rawWeek := strings.TrimSpace(q.Get("year")), strings.TrimSpace(q.Get("week"))
	userID := currentUser(r.Context()).ID

	var (
		view *model.WeekView
		err  error
	)
	switch {
	case rawYear == "" && rawWeek == "":
		view, err = h.eventService.CurrentWeek(r.Context(), userID)
	case rawYear == "" || rawWeek == "":
		h.badRequest(w, op, "both year and week are required")
		return
	default:
		year, yErr := parseInt(rawYear)
		week, wErr := parseInt(rawWeek)
		if yErr != nil || wErr != nil {
			h.badRequest(w, op, "year and week must be integers")
			return
		}
		view, err = h.eventService.Week(r.Context(), userID, int(year), int(week))
	}
	if err != nil {
		h.writeError(w, op, err)
		return
	}

	h.writeJSON(w, http.StatusOK, toWeekResponse(view))
}

// WeekImage PNG сетка недели
func (h *Handlers) WeekImage(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.WeekImage"

	view, err := h.eventService.WeekByID(r.Context(), currentUser(r.Context()).ID, r.PathValue("week_id"))
	if err != nil {
		h.writeError(w, op, err)
		return
	}

	img, err := render.WeekImage(view, h.now())
	if err != nil {
		h.writeError(w, op, fmt.Errorf("render week image: %w", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img); err != nil {
		h.logger.Error("Failed to write image", zap.Error(err))
	}
}

// ExportICS выгружает события в iCalendar, фильтры как у списка
func (h *Handlers) ExportICS(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ExportICS"

	filter, err := eventFilter(r)
	if err != nil {
		h.badRequest(w, op, err.Error())
		return
	}

	events, err := h.eventService.List(r.Context(), currentUser(r.Context()).ID, filter)
	if err != nil {
		h.writeError(w, op, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="time-tracker.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(ical.Export(events, h.now()))); err != nil {
		h.logger.Error("Failed to write calendar", zap.Error(err))
	}
}

// eventFilter разбирает start_date, end_date и category_id
func eventFilter(r *http.Request) (model.EventFilter, error) {
	var filter model.EventFilter
	q := r.URL.Query()

	if raw := strings.TrimSpace(q.Get("start_date")); raw != "" {
		t, err := service.ParseDateOrTimestamp(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid start_date: %q", raw)
		}
		filter.From = &t
	}
	if raw := strings.TrimSpace(q.Get("end_date")); raw != "" {
		t, err := service.ParseDateOrTimestamp(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid end_date: %q", raw)
		}
		filter.To = &t
	}
	if raw := strings.TrimSpace(q.Get("category_id")); raw != "" {
		id, err := parseInt(raw)
		if err != nil || id <= 0 {
			return filter, fmt.Errorf("invalid category_id: %q", raw)
		}
		filter.CategoryID = &id
	}

	return filter, nil
}

func toWeekResponse(view *model.WeekView) weekResponse {
	return weekResponse{
		Success: true,
		Week: weekInfo{
			Year:      view.Range.Year,
			Week:      view.Range.Week,
			ID:        view.Range.ID(),
			StartDate: view.Range.Start.Format("2006-01-02"),
			EndDate:   view.Range.End.Format("2006-01-02"),
		},
		Events:      toEventsJSON(view.Events),
		Days:        view.Days,
		PlanMinutes: view.PlanMinutes,
		FactMinutes: view.FactMinutes,
	}
}
