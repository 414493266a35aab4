package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Freeeeeet/time_tracker/internal/model"
	"github.com/Freeeeeet/time_tracker/internal/repository"
	"github.com/Freeeeeet/time_tracker/internal/repository/base"
	"go.uber.org/zap"
)

const maxCategoryNameLen = 100

type CreateCategoryRequest struct {
	Name        string
	Color       string
	Description string
}

type CategoryService struct {
	tx         Transactor
	categories CategoryStore
	events     EventStore
	logger     *zap.Logger
}

func NewCategoryService(tx Transactor, categories CategoryStore, events EventStore, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		tx:         tx,
		categories: categories,
		events:     events,
		logger:     logger,
	}
}

// List получает все категории пользователя
func (s *CategoryService) List(ctx context.Context, userID int64) ([]*model.Category, error) {
	categories, err := s.categories.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// Create создаёт категорию. Повторное имя у того же пользователя - конфликт.
func (s *CategoryService) Create(ctx context.Context, userID int64, req CreateCategoryRequest) (*model.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, validationErr("category name is required")
	}
	if utf8.RuneCountInString(name) > maxCategoryNameLen {
		return nil, validationErr("category name must be at most %d characters", maxCategoryNameLen)
	}

	color := strings.TrimSpace(req.Color)
	if color == "" {
		color = model.DefaultCategoryColor
	}
	if !model.IsValidColor(color) {
		return nil, validationErr("color must be in #RRGGBB format, got %q", color)
	}

	category := &model.Category{
		UserID:      userID,
		Name:        name,
		Color:       color,
		Description: strings.TrimSpace(req.Description),
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		existing, err := s.categories.GetByName(ctx, userID, name)
		if err != nil {
			return fmt.Errorf("check existing category: %w", err)
		}
		if existing != nil {
			return conflictErr(existing.ID, "category %q already exists", name)
		}

		if err := s.categories.Create(ctx, category); err != nil {
			if base.IsUniqueViolation(err, repository.ConstraintCategoryName) {
				return conflictErr(0, "category %q already exists", name)
			}
			return fmt.Errorf("create category: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Category created",
		zap.Int64("category_id", category.ID),
		zap.Int64("user_id", userID),
		zap.String("name", name),
	)

	return category, nil
}

// Delete удаляет категорию пользователя.
// Если на категорию ссылаются события и force = false - конфликт.
func (s *CategoryService) Delete(ctx context.Context, userID, categoryID int64, force bool) error {
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		category, err := s.categories.GetByID(ctx, userID, categoryID)
		if err != nil {
			return fmt.Errorf("get category: %w", err)
		}
		if category == nil {
			return notFoundErr("category not found")
		}

		if !force {
			count, err := s.events.CountByCategory(ctx, userID, categoryID)
			if err != nil {
				return fmt.Errorf("count category events: %w", err)
			}
			if count > 0 {
				return conflictErr(categoryID, "category %q is used by %d events", category.Name, count)
			}
		}

		deleted, err := s.categories.Delete(ctx, userID, categoryID)
		if err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		if !deleted {
			return notFoundErr("category not found")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Category deleted",
		zap.Int64("category_id", categoryID),
		zap.Int64("user_id", userID),
		zap.Bool("force", force),
	)

	return nil
}

// FindByCode ищет категорию по короткому коду из бота ("работа", "спорт")
func (s *CategoryService) FindByCode(ctx context.Context, userID int64, code string) (*model.Category, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, validationErr("category code is required")
	}

	category, err := s.categories.FindByCode(ctx, userID, code)
	if err != nil {
		return nil, fmt.Errorf("find category by code: %w", err)
	}
	if category == nil {
		return nil, notFoundErr("category not found for code: %s", code)
	}
	return category, nil
}

// SeedDefaults создаёт категории по умолчанию, если у пользователя их ещё нет
func (s *CategoryService) SeedDefaults(ctx context.Context, userID int64) error {
	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		count, err := s.categories.CountByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("count categories: %w", err)
		}
		if count > 0 {
			return nil
		}

		for _, def := range model.DefaultCategories {
			category := &model.Category{
				UserID: userID,
				Name:   def.Name,
				Color:  def.Color,
			}
			if err := s.categories.Create(ctx, category); err != nil {
				return fmt.Errorf("create default category %s: %w", def.Code, err)
			}
		}

		s.logger.Info("Default categories created",
			zap.Int64("user_id", userID),
			zap.Int("count", len(model.DefaultCategories)),
		)
		return nil
	})
}

// Count возвращает количество категорий пользователя
func (s *CategoryService) Count(ctx context.Context, userID int64) (int, error) {
	count, err := s.categories.CountByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return count, nil
}
