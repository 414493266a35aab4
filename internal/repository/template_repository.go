package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/time_tracker/internal/model"
	"github.com/Freeeeeet/time_tracker/internal/repository/base"
)

type TemplateRepository struct {
	*base.Repository
}

func NewTemplateRepository(b *base.Repository) *TemplateRepository {
	return &TemplateRepository{Repository: b}
}

// Create сохраняет шаблон
func (r *TemplateRepository) Create(ctx context.Context, template *model.Template) error {
	query := `
		INSERT INTO templates (user_id, name, data)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, template.UserID, template.Name, []byte(template.Data)).
		Scan(&template.ID, &template.CreatedAt)
	if err != nil {
		return fmt.Errorf("create template: %w", err)
	}

	return nil
}

// ListByUser получает шаблоны пользователя
func (r *TemplateRepository) ListByUser(ctx context.Context, userID int64) ([]*model.Template, error) {
	query := `
		SELECT id, user_id, name, data, created_at
		FROM templates
		WHERE user_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	templates := []*model.Template{}
	for rows.Next() {
		var t model.Template
		var data []byte
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &data, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		t.Data = data
		templates = append(templates, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}

	return templates, nil
}

// Delete удаляет шаблон пользователя
func (r *TemplateRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM templates WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete template: %w", err)
	}
	return affected > 0, nil
}
