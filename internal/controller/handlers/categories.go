package handlers

import (
	"net/http"

	"github.com/Freeeeeet/time_tracker/internal/model"
	"github.com/Freeeeeet/time_tracker/internal/service"
	"go.uber.org/zap"
)

type createCategoryRequest struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

type categoryResponse struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Category *model.Category `json:"category"`
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.ListCategories"

	categories, err := h.categoryService.List(r.Context(), currentUser(r.Context()).ID)
	if err != nil {
		h.writeError(w, op, err)
		return
	}

	h.writeJSON(w, http.StatusOK, categories)
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.CreateCategory"

	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		h.badRequest(w, op, err.Error())
		return
	}

	user := currentUser(r.Context())
	category, err := h.categoryService.Create(r.Context(), user.ID, service.CreateCategoryRequest{
		Name:        req.Name,
		Color:       req.Color,
		Description: req.Description,
	})
	if err != nil {
		h.writeError(w, op, err)
		return
	}

	h.logger.Info("Category created",
		zap.Int64("user_id", user.ID),
		zap.Int64("category_id", category.ID))
	h.writeJSON(w, http.StatusCreated, categoryResponse{
		Success:  true,
		Message:  "category created",
		Category: category,
	})
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.DeleteCategory"

	id, err := pathID(r, "id")
	if err != nil {
		h.badRequest(w, op, err.Error())
		return
	}
	force, err := queryBool(r, "force")
	if err != nil {
		h.badRequest(w, op, err.Error())
		return
	}

	if err := h.categoryService.Delete(r.Context(), currentUser(r.Context()).ID, id, force); err != nil {
		h.writeError(w, op, err)
		return
	}

	h.writeJSON(w, http.StatusOK, successResponse{Success: true, Message: "category deleted"})
}
