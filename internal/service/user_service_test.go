package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/time_tracker/internal/model"
	"github.com/Freeeeeet/time_tracker/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func register(t *testing.T, svc *testServices, username, telegramID string) *model.User {
	t.Helper()
	user, err := svc.users.Register(context.Background(), RegisterRequest{
		Username:        username,
		Password:        "secret123",
		ConfirmPassword: "secret123",
		TelegramID:      telegramID,
	})
	require.NoError(t, err)
	return user
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(testNow)

	user := register(t, svc, "alice", "100500")
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.True(t, user.HasTelegram())

	count, err := svc.categories.Count(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, len(model.DefaultCategories), count)
}

func TestUserService_RegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(testNow)
	register(t, svc, "alice", "100500")
	long80 := strings.Repeat("x", 80)

	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr error
	}{
		{name: "short username", req: RegisterRequest{Username: "al", Password: "secret123", ConfirmPassword: "secret123"}, wantErr: ErrValidation},
		{name: "short password", req: RegisterRequest{Username: "bob", Password: "123", ConfirmPassword: "123"}, wantErr: ErrValidation},
		{name: "mismatch", req: RegisterRequest{Username: "bob", Password: "secret123", ConfirmPassword: "secret124"}, wantErr: ErrValidation},
		{name: "password over 72 bytes", req: RegisterRequest{Username: "bob", Password: long80, ConfirmPassword: long80}, wantErr: ErrValidation},
		{name: "long username", req: RegisterRequest{Username: strings.Repeat("б", 65), Password: "secret123", ConfirmPassword: "secret123"}, wantErr: ErrValidation},
		{name: "long email", req: RegisterRequest{Username: "bob", Password: "secret123", ConfirmPassword: "secret123", Email: strings.Repeat("e", 121)}, wantErr: ErrValidation},
		{name: "long telegram id", req: RegisterRequest{Username: "bob", Password: "secret123", ConfirmPassword: "secret123", TelegramID: strings.Repeat("1", 101)}, wantErr: ErrValidation},
		{name: "taken username", req: RegisterRequest{Username: "alice", Password: "secret123", ConfirmPassword: "secret123"}, wantErr: ErrConflict},
		{name: "taken telegram", req: RegisterRequest{Username: "bob", Password: "secret123", ConfirmPassword: "secret123", TelegramID: "100500"}, wantErr: ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.users.Register(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 1, svc.userCount())
		})
	}
}

func TestUserService_LoginAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(testNow)
	user := register(t, svc, "alice", "100500")

	for _, identifier := range []string{"alice", "100500"} {
		res, err := svc.users.Login(ctx, identifier, "secret123")
		require.NoError(t, err, identifier)
		assert.Equal(t, user.ID, res.User.ID)
		assert.NotEmpty(t, res.Token)

		got, session, err := svc.users.Authenticate(ctx, res.Token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, res.Session.ID, session.ID)
	}

	_, err := svc.users.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.users.Login(ctx, "nobody", "secret123")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, _, err = svc.users.Authenticate(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, _, err = svc.users.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUserService_Logout(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(testNow)
	register(t, svc, "alice", "")

	res, err := svc.users.Login(ctx, "alice", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.users.Logout(ctx, res.Session.ID))

	_, _, err = svc.users.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUserService_SessionExpiry(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(testNow)
	register(t, svc, "alice", "")

	_, err := svc.users.Login(ctx, "alice", "secret123")
	require.NoError(t, err)

	// токен ещё подписан, но строка сессии уже истекла по часам сервиса
	svc.users.now = func() time.Time { return testNow.Add(2 * time.Hour) }
	removed, err := svc.users.CleanupExpiredSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Zero(t, svc.sessionCount())
}

func TestUserService_LookupByTelegramID(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(testNow)
	user := register(t, svc, "alice", "100500")

	got, err := svc.users.LookupByTelegramID(ctx, " 100500 ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.users.LookupByTelegramID(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.users.LookupByTelegramID(ctx, "42")
	assert.ErrorIs(t, err, ErrNotFound)
	msg, ok := PublicMessage(err)
	assert.True(t, ok)
	assert.Contains(t, msg, "register")
}

func TestUserService_RegisterLimitsInclusive(t *testing.T) {
	svc := newTestServices(testNow)
	password := strings.Repeat("x", 72)

	user, err := svc.users.Register(context.Background(), RegisterRequest{
		Username:        strings.Repeat("б", 64),
		Password:        password,
		ConfirmPassword: password,
		Email:           strings.Repeat("e", 120),
		TelegramID:      strings.Repeat("1", 100),
	})
	require.NoError(t, err)

	res, err := svc.users.Login(context.Background(), user.Username, password)
	require.NoError(t, err)
	assert.Equal(t, user.ID, res.User.ID)
}

func TestUserService_DeleteAccount(t *testing.T) {
	ctx := context.Background()
	svc := newTestServices(testNow)
	alice := register(t, svc, "alice", "100500")
	bob := register(t, svc, "bob", "")

	categories, err := svc.categories.List(ctx, alice.ID)
	require.NoError(t, err)
	catID := categories[0].ID
	_, err = svc.events.Create(ctx, alice.ID, CreateEventRequest{
		CategoryID: &catID, StartTime: "2025-12-24 10:00:00", EndTime: "2025-12-24 11:00:00",
	})
	require.NoError(t, err)
	_, err = svc.templates.Create(ctx, alice.ID, CreateTemplateRequest{Name: "день", Data: json.RawMessage(`{}`)})
	require.NoError(t, err)
	res, err := svc.users.Login(ctx, "alice", "secret123")
	require.NoError(t, err)

	require.NoError(t, svc.users.DeleteAccount(ctx, alice.ID))

	users, cats, events, templates, sessions := svc.store.Totals()
	assert.Equal(t, 1, users)
	assert.Equal(t, len(model.DefaultCategories), cats, "остались только категории bob")
	assert.Zero(t, events)
	assert.Zero(t, templates)
	assert.Zero(t, sessions)

	_, _, err = svc.users.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = svc.users.LookupByTelegramID(ctx, "100500")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.users.DeleteAccount(ctx, alice.ID), ErrNotFound)

	count, err := svc.categories.Count(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, len(model.DefaultCategories), count)
}

type failingSeeder struct {
	categories *CategoryService
}

// SeedDefaults успевает создать категорию и падает
func (s failingSeeder) SeedDefaults(ctx context.Context, userID int64) error {
	if _, err := s.categories.Create(ctx, userID, CreateCategoryRequest{Name: "Первая", Color: "#000000"}); err != nil {
		return err
	}
	return errors.New("seed failed")
}

func TestUserService_RegisterRollback(t *testing.T) {
	store := memory.New()
	logger := zap.NewNop()
	categories := NewCategoryService(store.Tx(), store.Categories(), store.Events(), logger)
	users := NewUserService(store.Tx(), store.Users(), store.Sessions(), failingSeeder{categories}, "test-secret", time.Hour, logger)

	_, err := users.Register(context.Background(), RegisterRequest{
		Username:        "alice",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	require.Error(t, err)

	usersLeft, categoriesLeft, _, _, _ := store.Totals()
	assert.Zero(t, usersLeft)
	assert.Zero(t, categoriesLeft)

	// имя не заняло откатившейся записью
	users.seeder = categories
	_, err = users.Register(context.Background(), RegisterRequest{
		Username:        "alice",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	require.NoError(t, err)
}
