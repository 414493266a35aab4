package memory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Freeeeeet/time_tracker/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(ctx context.Context, t *testing.T, store *Store, username string) *model.User {
	t.Helper()

	user := &model.User{Username: username, PasswordHash: "hash"}
	require.NoError(t, store.Users().Create(ctx, user))
	category := &model.Category{UserID: user.ID, Name: "РАБОТА", Color: "#4A90E2"}
	require.NoError(t, store.Categories().Create(ctx, category))
	require.NoError(t, store.Events().Create(ctx, &model.Event{
		UserID:     user.ID,
		CategoryID: &category.ID,
		Type:       model.EventTypePlan,
		StartTime:  time.Date(2025, 12, 22, 9, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, store.Templates().Create(ctx, &model.Template{UserID: user.ID, Name: "день", Data: json.RawMessage(`{}`)}))
	require.NoError(t, store.Sessions().Create(ctx, &model.Session{ID: uuid.New(), UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}))
	return user
}

func TestUsers_DeleteCascade(t *testing.T) {
	ctx := context.Background()
	store := New()
	alice := seedUser(ctx, t, store, "alice")
	seedUser(ctx, t, store, "bob")

	deleted, err := store.Users().Delete(ctx, alice.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	users, categories, events, templates, sessions := store.Totals()
	assert.Equal(t, 1, users)
	assert.Equal(t, 1, categories)
	assert.Equal(t, 1, events)
	assert.Equal(t, 1, templates)
	assert.Equal(t, 1, sessions)

	deleted, err = store.Users().Delete(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestTx_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	store := New()
	alice := seedUser(ctx, t, store, "alice")

	errBoom := errors.New("boom")
	err := store.Tx().WithTx(ctx, func(ctx context.Context) error {
		seedUser(ctx, t, store, "bob")
		// вложенный WithTx идёт в той же транзакции
		return store.Tx().WithTx(ctx, func(ctx context.Context) error {
			deleted, err := store.Users().Delete(ctx, alice.ID)
			require.NoError(t, err)
			require.True(t, deleted)
			return errBoom
		})
	})
	require.ErrorIs(t, err, errBoom)

	users, categories, events, templates, sessions := store.Totals()
	assert.Equal(t, 1, users)
	assert.Equal(t, 1, categories)
	assert.Equal(t, 1, events)
	assert.Equal(t, 1, templates)
	assert.Equal(t, 1, sessions)

	got, err := store.Users().GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, alice.ID, got.ID)

	bob, err := store.Users().GetByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, bob)
}

func TestTx_CommitKeepsChanges(t *testing.T) {
	ctx := context.Background()
	store := New()

	err := store.Tx().WithTx(ctx, func(ctx context.Context) error {
		seedUser(ctx, t, store, "alice")
		return nil
	})
	require.NoError(t, err)

	users, _, events, _, _ := store.Totals()
	assert.Equal(t, 1, users)
	assert.Equal(t, 1, events)
}
