package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Freeeeeet/time_tracker/internal/model"
	"go.uber.org/zap"
)

const maxTemplateNameLen = 100

type CreateTemplateRequest struct {
	Name string
	Data json.RawMessage
}

type TemplateService struct {
	templates TemplateStore
	logger    *zap.Logger
}

func NewTemplateService(templates TemplateStore, logger *zap.Logger) *TemplateService {
	return &TemplateService{
		templates: templates,
		logger:    logger,
	}
}

// List получает шаблоны пользователя
func (s *TemplateService) List(ctx context.Context, userID int64) ([]*model.Template, error) {
	templates, err := s.templates.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

// Create сохраняет шаблон. Содержимое data не проверяется, только наличие.
func (s *TemplateService) Create(ctx context.Context, userID int64, req CreateTemplateRequest) (*model.Template, error) {
	name := strings.TrimSpace(req.Name)
	data := bytes.TrimSpace(req.Data)

	if name == "" || len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, validationErr("template name and data are required")
	}
	if utf8.RuneCountInString(name) > maxTemplateNameLen {
		return nil, validationErr("template name must be at most %d characters", maxTemplateNameLen)
	}
	if !json.Valid(data) {
		return nil, validationErr("template data must be valid JSON")
	}

	template := &model.Template{
		UserID: userID,
		Name:   name,
		Data:   json.RawMessage(data),
	}

	if err := s.templates.Create(ctx, template); err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}

	s.logger.Info("Template created",
		zap.Int64("template_id", template.ID),
		zap.Int64("user_id", userID),
		zap.String("name", name),
	)

	return template, nil
}

// Delete удаляет шаблон пользователя
func (s *TemplateService) Delete(ctx context.Context, userID, templateID int64) error {
	deleted, err := s.templates.Delete(ctx, userID, templateID)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	if !deleted {
		return notFoundErr("template not found")
	}
	return nil
}
