package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Freeeeeet/time_tracker/internal/model"
	"github.com/Freeeeeet/time_tracker/internal/repository"
	"github.com/Freeeeeet/time_tracker/internal/repository/base"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6

	// ограничения колонок таблицы users
	maxUsernameLen   = 64
	maxEmailLen      = 120
	maxTelegramIDLen = 100

	// bcrypt не принимает пароли длиннее 72 байт
	maxPasswordBytes = 72
)

type RegisterRequest struct {
	Username        string
	Password        string
	ConfirmPassword string
	Email           string
	TelegramID      string
}

// CategorySeeder создаёт категории по умолчанию новому пользователю
type CategorySeeder interface {
	SeedDefaults(ctx context.Context, userID int64) error
}

type UserService struct {
	tx         Transactor
	users      UserStore
	sessions   SessionStore
	seeder     CategorySeeder
	secret     []byte
	sessionTTL time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

func NewUserService(
	tx Transactor,
	users UserStore,
	sessions SessionStore,
	seeder CategorySeeder,
	secret string,
	sessionTTL time.Duration,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		tx:         tx,
		users:      users,
		sessions:   sessions,
		seeder:     seeder,
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// Register регистрирует пользователя и создаёт ему категории по умолчанию
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	telegramID := strings.TrimSpace(req.TelegramID)
	email := strings.TrimSpace(req.Email)

	if username == "" || req.Password == "" {
		return nil, validationErr("username and password are required")
	}
	if utf8.RuneCountInString(username) < minUsernameLen {
		return nil, validationErr("username must be at least %d characters", minUsernameLen)
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLen {
		return nil, validationErr("password must be at least %d characters", minPasswordLen)
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return nil, validationErr("username must be at most %d characters", maxUsernameLen)
	}
	if len(req.Password) > maxPasswordBytes {
		return nil, validationErr("password must be at most %d bytes", maxPasswordBytes)
	}
	if req.Password != req.ConfirmPassword {
		return nil, validationErr("passwords do not match")
	}
	if utf8.RuneCountInString(email) > maxEmailLen {
		return nil, validationErr("email must be at most %d characters", maxEmailLen)
	}
	if utf8.RuneCountInString(telegramID) > maxTelegramIDLen {
		return nil, validationErr("telegram id must be at most %d characters", maxTelegramIDLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if email != "" {
		user.Email = &email
	}
	if telegramID != "" {
		user.TelegramID = &telegramID
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		existing, err := s.users.GetByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if existing != nil {
			return conflictErr(existing.ID, "username %q is already taken", username)
		}

		if telegramID != "" {
			existing, err = s.users.GetByTelegramID(ctx, telegramID)
			if err != nil {
				return fmt.Errorf("check telegram id: %w", err)
			}
			if existing != nil {
				return conflictErr(existing.ID, "telegram id is already linked to another account")
			}
		}

		if err := s.users.Create(ctx, user); err != nil {
			switch {
			case base.IsUniqueViolation(err, repository.ConstraintUsername):
				return conflictErr(0, "username %q is already taken", username)
			case base.IsUniqueViolation(err, repository.ConstraintTelegramID):
				return conflictErr(0, "telegram id is already linked to another account")
			case base.IsUniqueViolation(err, repository.ConstraintEmail):
				return conflictErr(0, "email is already registered")
			}
			return fmt.Errorf("create user: %w", err)
		}

		return s.seeder.SeedDefaults(ctx, user.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("New user registered",
		zap.Int64("user_id", user.ID),
		zap.String("username", username),
		zap.Bool("telegram", user.HasTelegram()),
	)

	return user, nil
}

// GetByID получает пользователя по ID
func (s *UserService) GetByID(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, notFoundErr("user not found")
	}
	return user, nil
}

// DeleteAccount удаляет пользователя; категории, события, шаблоны и сессии
// удаляются каскадно.
func (s *UserService) DeleteAccount(ctx context.Context, userID int64) error {
	deleted, err := s.users.Delete(ctx, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !deleted {
		return notFoundErr("user not found")
	}

	s.logger.Info("User deleted", zap.Int64("user_id", userID))
	return nil
}

// LookupByTelegramID находит пользователя бота по Telegram ID.
// Сессия при этом не создаётся.
func (s *UserService) LookupByTelegramID(ctx context.Context, telegramID string) (*model.User, error) {
	telegramID = strings.TrimSpace(telegramID)
	if telegramID == "" {
		return nil, unauthorizedErr("telegram id is required")
	}

	user, err := s.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("get user by telegram id: %w", err)
	}
	if user == nil {
		return nil, notFoundErr("user not found, register via the web app first and link your telegram id")
	}
	return user, nil
}

func checkPassword(user *model.User, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return unauthorizedErr("invalid credentials")
	}
	if err != nil {
		return fmt.Errorf("compare password: %w", err)
	}
	return nil
}
