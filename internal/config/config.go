package config

import (
	"fmt"

	"github.com/Netflix/go-env"
)

type Config struct {
	DatabaseDSN string `env:"DATABASE_DSN,required=true"`
	RabbitMQURL string `env:"RABBITMQ_URL,required=true"`
	RedisURL    string `env:"REDIS_URL,required=true"`

	APIPort  int    `env:"API_PORT,default=8080"`
	LogLevel string `env:"LOG_LEVEL,default=info"`

	WorkerConcurrency int `env:"WORKER_CONCURRENCY,default=16"`
	RetryScanSeconds  int `env:"RETRY_SCAN_SECONDS,default=5"`
	RetryScanLimit    int `env:"RETRY_SCAN_LIMIT,default=100"`

	// Channel credentials are optional. A channel left unconfigured stays
	// registered and fails fast with a configuration error, so delivery
	// falls through to the next channel in the order.
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	DefaultFromEmail     string `env:"DEFAULT_FROM_EMAIL,default=no-reply@notify-relay.local"`
	TelegramBotToken     string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramAPIBaseURL   string `env:"TELEGRAM_API_BASE_URL"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
