package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        *string   `json:"email,omitempty"`
	TelegramID   *string   `json:"telegram_id,omitempty"` // nil - аккаунт не привязан к боту
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// HasTelegram проверяет привязан ли Telegram к аккаунту
func (u *User) HasTelegram() bool {
	return u.TelegramID != nil && *u.TelegramID != ""
}
