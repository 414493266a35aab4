package handlers

const (
	// SessionCookieName cookie с подписанным токеном сессии
	SessionCookieName = "session"

	// TelegramIDHeader заголовок, которым бот передаёт Telegram ID пользователя
	TelegramIDHeader = "X-Telegram-ID"
	// TelegramIDParam альтернатива заголовку в query
	TelegramIDParam = "telegram_id"

	// MaxQuickReplies ограничение Telegram на inline-клавиатуру
	MaxQuickReplies = 10

	// maxBodyBytes ограничение размера JSON тела запроса
	maxBodyBytes = 1 << 20
)
