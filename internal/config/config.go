package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Режимы аутентификации вебхука
const (
	AuthModeHeader = "header"
	AuthModeQuery  = "query"
	AuthModeHMAC   = "hmac"
)

// Источники данных о билете в платеже
const (
	TicketSourceMetadata    = "metadata"
	TicketSourceDescription = "description"
)

// Config содержит конфигурацию приложения
type Config struct {
	Port      string `env:"PORT" env-default:"8080"`
	GinMode   string `env:"GIN_MODE" env-default:"release"`
	LogLevel  string `env:"LOG_LEVEL" env-default:"info"`
	LogFormat string `env:"LOG_FORMAT" env-default:"json"`

	Auth     AuthConfig
	Ticket   TicketConfig
	Mail     MailConfig
	Dedup    DedupConfig
	YooKassa YooKassaConfig
	Schedule ScheduleConfig
}

type AuthConfig struct {
	// Mode: header | query | hmac
	Mode          string `env:"AUTH_MODE" env-default:"header"`
	APIKey        string `env:"API_KEY"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

type TicketConfig struct {
	// Source: metadata | description. Ровно один источник, смешивание запрещено.
	Source       string `env:"TICKET_SOURCE" env-default:"metadata"`
	SuccessEvent string `env:"SUCCESS_EVENT" env-default:"payment.succeeded"`
}

type MailConfig struct {
	Host       string        `env:"SMTP_HOST"`
	Port       int           `env:"SMTP_PORT" env-default:"587"`
	TLS        bool          `env:"SMTP_TLS" env-default:"false"`
	Username   string        `env:"SMTP_USER"`
	Password   string        `env:"SMTP_PASS"`
	SenderName string        `env:"MAIL_SENDER_NAME" env-default:"Каток"`
	Sender     string        `env:"MAIL_SENDER"`
	Timeout    time.Duration `env:"MAIL_TIMEOUT" env-default:"15s"`
}

type DedupConfig struct {
	// Пустой Addr отключает подавление повторных уведомлений
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	TTL      time.Duration `env:"DEDUP_TTL" env-default:"24h"`
}

type YooKassaConfig struct {
	// Пустой ShopID отключает создание платежей (вариант только с вебхуком)
	ShopID    string        `env:"SHOP_ID"`
	SecretKey string        `env:"SECRET_KEY"`
	BaseURL   string        `env:"YOOKASSA_URL" env-default:"https://api.yookassa.ru"`
	ReturnURL string        `env:"RETURN_URL" env-default:"https://hc-grad.ru/payment-success"`
	Timeout   time.Duration `env:"PAYMENT_TIMEOUT" env-default:"30s"`
}

type ScheduleConfig struct {
	MaxTicketsPerSession int `env:"MAX_TICKETS_PER_SESSION" env-default:"50"`
}

// Load загружает конфигурацию из переменных окружения и валидирует её
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg.trimSecrets()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// trimSecrets убирает случайные пробелы из секретов до первого использования
func (c *Config) trimSecrets() {
	c.Auth.APIKey = strings.TrimSpace(c.Auth.APIKey)
	c.Auth.WebhookSecret = strings.TrimSpace(c.Auth.WebhookSecret)
	c.Mail.Host = strings.TrimSpace(c.Mail.Host)
	c.Mail.Username = strings.TrimSpace(c.Mail.Username)
	c.Mail.Password = strings.TrimSpace(c.Mail.Password)
	c.Mail.Sender = strings.TrimSpace(c.Mail.Sender)
	c.YooKassa.ShopID = strings.TrimSpace(c.YooKassa.ShopID)
	c.YooKassa.SecretKey = strings.TrimSpace(c.YooKassa.SecretKey)
}

// Validate проверяет конфигурацию при старте процесса.
// Отсутствие обязательного секрета останавливает запуск, а не тихо ослабляет проверку.
func (c *Config) Validate() error {
	switch c.Auth.Mode {
	case AuthModeHeader, AuthModeQuery:
		if c.Auth.APIKey == "" {
			return fmt.Errorf("API_KEY is required for auth mode %q", c.Auth.Mode)
		}
	case AuthModeHMAC:
		if c.Auth.WebhookSecret == "" {
			return fmt.Errorf("WEBHOOK_SECRET is required for auth mode %q", c.Auth.Mode)
		}
	default:
		return fmt.Errorf("unknown auth mode %q", c.Auth.Mode)
	}

	switch c.Ticket.Source {
	case TicketSourceMetadata, TicketSourceDescription:
	default:
		return fmt.Errorf("unknown ticket source %q", c.Ticket.Source)
	}

	if c.Mail.Host == "" {
		return fmt.Errorf("SMTP_HOST is required")
	}
	if c.Mail.Username == "" {
		return fmt.Errorf("SMTP_USER is required")
	}
	if c.Mail.Sender == "" {
		return fmt.Errorf("MAIL_SENDER is required")
	}

	if c.YooKassa.ShopID != "" && c.YooKassa.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY is required when SHOP_ID is set")
	}

	if c.Schedule.MaxTicketsPerSession < 1 {
		return fmt.Errorf("MAX_TICKETS_PER_SESSION must be >= 1")
	}

	return nil
}
