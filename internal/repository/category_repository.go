package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/time_tracker/internal/model"
	"github.com/Freeeeeet/time_tracker/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// ConstraintCategoryName уникальность (user_id, name)
const ConstraintCategoryName = "categories_user_id_name_key"

const categoryColumns = `id, user_id, name, color, description, created_at`

type CategoryRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewCategoryRepository(b *base.Repository, logger *zap.Logger) *CategoryRepository {
	return &CategoryRepository{
		Repository: b,
		logger:     logger,
	}
}

// Create создаёт новую категорию
func (r *CategoryRepository) Create(ctx context.Context, category *model.Category) error {
	query := `
		INSERT INTO categories (user_id, name, color, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		category.UserID,
		category.Name,
		category.Color,
		category.Description,
	).Scan(&category.ID, &category.CreatedAt)

	if err != nil {
		r.logger.Error("Failed to insert category into DB",
			zap.Int64("user_id", category.UserID),
			zap.String("name", category.Name),
			zap.Error(err))
		return fmt.Errorf("create category: %w", err)
	}

	r.logger.Debug("Category inserted",
		zap.Int64("category_id", category.ID),
		zap.Int64("user_id", category.UserID),
		zap.String("name", category.Name))

	return nil
}

// GetByID получает категорию пользователя по ID.
// Чужая категория неотличима от отсутствующей.
func (r *CategoryRepository) GetByID(ctx context.Context, userID, id int64) (*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND user_id = $2`

	category, err := scanCategory(r.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, fmt.Errorf("get category by id: %w", err)
	}
	return category, nil
}

// GetByName получает категорию пользователя по точному имени
func (r *CategoryRepository) GetByName(ctx context.Context, userID int64, name string) (*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE user_id = $1 AND name = $2`

	category, err := scanCategory(r.QueryRow(ctx, query, userID, name))
	if err != nil {
		return nil, fmt.Errorf("get category by name: %w", err)
	}
	return category, nil
}

// FindByCode ищет категорию по коду: сначала точное совпадение без учёта регистра, потом подстрока
func (r *CategoryRepository) FindByCode(ctx context.Context, userID int64, code string) (*model.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = $1
		  AND (LOWER(name) = LOWER($2) OR name ILIKE '%' || $3 || '%' ESCAPE '\')
		ORDER BY (LOWER(name) = LOWER($2)) DESC, id
		LIMIT 1
	`

	category, err := scanCategory(r.QueryRow(ctx, query, userID, code, EscapeLike(code)))
	if err != nil {
		return nil, fmt.Errorf("find category by code: %w", err)
	}
	return category, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike экранирует спецсимволы шаблона LIKE, чтобы код искался буквально
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ListByUser получает все категории пользователя
func (r *CategoryRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = $1
		ORDER BY name
	`

	rows, err := r.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []*model.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}

	return categories, nil
}

// CountByUser возвращает количество категорий пользователя
func (r *CategoryRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.QueryRow(ctx, `SELECT COUNT(*) FROM categories WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return count, nil
}

// Delete удаляет категорию пользователя. События остаются с category_id = NULL.
func (r *CategoryRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	return affected > 0, nil
}

func scanCategory(row pgx.Row) (*model.Category, error) {
	var c model.Category
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Name,
		&c.Color,
		&c.Description,
		&c.CreatedAt,
	)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
