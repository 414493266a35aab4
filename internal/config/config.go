package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN         string        `env:"DATABASE_URL" env-required:"true"`
	SecretKey     string        `env:"SECRET_KEY" env-required:"true"`
	Environment   string        `env:"ENV" env-default:"development"`
	HTTPPort      int           `env:"HTTP_PORT" env-default:"8080"`
	SessionTTL    time.Duration `env:"SESSION_TTL" env-default:"720h"`
	MigrationsDir string        `env:"MIGRATIONS_DIR"` // пусто - встроенные миграции
	CORSOrigins   []string      `env:"CORS_ORIGINS" env-separator:","`
	PublicURL     string        `env:"PUBLIC_URL"` // адрес веб-интерфейса для ссылок из бота
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.DBDSN = normalizeDSN(cfg.DBDSN)

	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.DBDSN) == "" {
		return fmt.Errorf("DATABASE_URL is required but not set")
	}
	if strings.TrimSpace(c.SecretKey) == "" {
		return fmt.Errorf("SECRET_KEY is required but not set")
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT must be in 1..65535, got %d", c.HTTPPort)
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	return nil
}

// normalizeDSN приводит схему postgres:// (Heroku, Render) к postgresql://
func normalizeDSN(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") {
		return "postgresql://" + strings.TrimPrefix(dsn, "postgres://")
	}
	return dsn
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
