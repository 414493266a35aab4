package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Freeeeeet/time_tracker/internal/model"
	"github.com/Freeeeeet/time_tracker/internal/service"
)

type createTemplateRequest struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

type templateResponse struct {
	Success    bool            `json:"success"`
	TemplateID int64           `json:"template_id"`
	Template   *model.Template `json:"template"`
}

func (h *Handlers) ListTemplates(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ListTemplates"

	templates, err := h.templateService.List(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		h.writeError(w, op, err)
		return
	}

	h.writeJSON(w, http.StatusOK, templates)
}

func (h *Handlers) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.CreateTemplate"

	var req createTemplateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, op, err.Error())
		return
	}

	tmpl, err := h.templateService.Create(r.Context(), currentUser(r.Context()).ID, service.CreateTemplateRequest{
		Name: req.Name,
		Data: req.Data,
	})
	if err != nil {
		h.writeError(w, op, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, templateResponse{Success: true, TemplateID: tmpl.ID, Template: tmpl})
}

func (h *Handlers) DeleteTemplate(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.DeleteTemplate"

	id, err := pathID(r, "id")
	if err != nil {
		h.badRequest(w, op, err.Error())
		return
	}

	if err := h.templateService.Delete(r.Context(), currentUser(r.Context()).ID, id); err != nil {
		h.writeError(w, op, err)
		return
	}

	h.writeJSON(w, http.StatusOK, successResponse{Success: true, Message: "template deleted"})
}
