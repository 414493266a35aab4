package service

import (
	"context"
	"testing"
	"time"

	"github.com/Freeeeeet/time_tracker/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		req       CreateCategoryRequest
		wantErr   error
		wantColor string
	}{
		{name: "default color", req: CreateCategoryRequest{Name: "Чтение"}, wantColor: model.DefaultCategoryColor},
		{name: "custom color", req: CreateCategoryRequest{Name: "Код", Color: "#00aa11"}, wantColor: "#00aa11"},
		{name: "empty name", req: CreateCategoryRequest{Name: "   "}, wantErr: ErrValidation},
		{name: "bad color", req: CreateCategoryRequest{Name: "X", Color: "red"}, wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestServices(time.Now())

			category, err := svc.categories.Create(ctx, 1, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, svc.categoryCount())
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, category.ID)
			assert.Equal(t, tt.wantColor, category.Color)
		})
	}
}

func TestCategoryService_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(time.Now())

	first, err := svc.categories.Create(ctx, 1, CreateCategoryRequest{Name: "Работа"})
	require.NoError(t, err)

	_, err = svc.categories.Create(ctx, 1, CreateCategoryRequest{Name: "Работа"})
	require.ErrorIs(t, err, ErrConflict)

	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, first.ID, svcErr.ExistingID)
	assert.Equal(t, 1, svc.categoryCount())

	// у другого пользователя то же имя допустимо
	_, err = svc.categories.Create(ctx, 2, CreateCategoryRequest{Name: "Работа"})
	assert.NoError(t, err)
}

func TestCategoryService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))

	category, err := svc.categories.Create(ctx, 1, CreateCategoryRequest{Name: "Спорт"})
	require.NoError(t, err)

	_, err = svc.events.Create(ctx, 1, CreateEventRequest{
		CategoryID: &category.ID,
		StartTime:  "2025-03-10 08:00:00",
		EndTime:    "2025-03-10 09:00:00",
	})
	require.NoError(t, err)

	err = svc.categories.Delete(ctx, 2, category.ID, false)
	assert.ErrorIs(t, err, ErrNotFound, "чужая категория")

	err = svc.categories.Delete(ctx, 1, category.ID, false)
	assert.ErrorIs(t, err, ErrConflict)

	err = svc.categories.Delete(ctx, 1, category.ID, true)
	require.NoError(t, err)
	assert.Zero(t, svc.categoryCount())

	events, err := svc.events.List(ctx, 1, model.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Nil(t, events[0].CategoryID)
}

func TestCategoryService_SeedDefaults(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(time.Now())

	require.NoError(t, svc.categories.SeedDefaults(ctx, 1))
	require.NoError(t, svc.categories.SeedDefaults(ctx, 1))

	count, err := svc.categories.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, len(model.DefaultCategories), count)

	category, err := svc.categories.FindByCode(ctx, 1, "спорт")
	require.NoError(t, err)
	assert.Equal(t, "СПОРТ", category.Name)

	_, err = svc.categories.FindByCode(ctx, 1, "танцы")
	assert.ErrorIs(t, err, ErrNotFound)
}
