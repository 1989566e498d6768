package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	// BaseURL is the public web UI root used in notification deep links.
	BaseURL string `env:"BASE_URL, default=http://localhost:8080"`

	Mongo     MongoConfig
	Redis     RedisConfig
	SMTP      SMTPConfig
	Slack     SlackConfig
	Notify    NotifyConfig
	Scheduler SchedulerConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=mbo_tracker"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR, default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,   default=0"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST, default=localhost"`
	Port     int    `env:"SMTP_PORT, default=587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM, default=mbo-tracker@example.com"`
	Enabled  bool   `env:"SMTP_ENABLED, default=false"`
}

type SlackConfig struct {
	Token      string `env:"SLACK_TOKEN"`
	ObserverID string `env:"SLACK_OBSERVER_ID"`
	Enabled    bool   `env:"SLACK_ENABLED, default=false"`
}

type NotifyConfig struct {
	// ObserverEmail is CC'd on outbound notification email for audit.
	ObserverEmail string `env:"NOTIFY_OBSERVER_EMAIL"`
}

type SchedulerConfig struct {
	Enabled bool `env:"SCHEDULER_ENABLED, default=true"`
	// MailWorkers sizes the fan-out pool for bulk reminder email.
	MailWorkers int `env:"SCHEDULER_MAIL_WORKERS, default=8"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
