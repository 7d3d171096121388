package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
)

const (
	NOTIFIER_SES    = "ses"
	NOTIFIER_SMTP   = "smtp"
	NOTIFIER_RESEND = "resend"
	NOTIFIER_AMQP   = "amqp"
)

type Config struct {
	IsTestMode     bool     `env:"TEST_MODE"`
	Port           uint16   `env:"PORT" envDefault:"9090"`
	Secret         string   `env:"SECRET,required"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	SecureCookies  bool     `env:"SECURE_COOKIES" envDefault:"true"`

	PostgresqlURL  string `env:"POSTGRESQL_URL,required"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"migrations"`
	// Without Redis the rate limiter keeps its counters in process memory.
	RedisURL string `env:"REDIS_URL"`

	BcryptHasherCost         int           `env:"BCRYPT_HASHER_COST" envDefault:"10"`
	PasswordResetTokenTTL    time.Duration `env:"PASSWORD_RESET_TOKEN_TTL" envDefault:"1h"`
	PasswordResetBaseURL     url.URL       `env:"PASSWORD_RESET_BASE_URL,required"`
	PasswordResetLimit       uint16        `env:"PASSWORD_RESET_HOURLY_LIMIT" envDefault:"3"`
	PasswordResetClientLimit uint16        `env:"PASSWORD_RESET_CLIENT_HOURLY_LIMIT" envDefault:"30"`
	CsrfTokenTTL             time.Duration `env:"CSRF_TOKEN_TTL" envDefault:"1h"`

	Notifier string `env:"NOTIFIER" envDefault:"smtp"`
	// Transport used by the notifier process for queued messages.
	DeliveryNotifier string `env:"DELIVERY_NOTIFIER" envDefault:"smtp"`

	AwsRegion                     string `env:"AWS_REGION"`
	AwsAccessKey                  string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey                  string `env:"AWS_SECRET_KEY"`
	AwsEmailSender                string `env:"AWS_EMAIL_SENDER"`
	AwsEmailPasswordResetTemplate string `env:"AWS_EMAIL_PASSWORD_RESET_TEMPLATE" envDefault:"password_reset"`

	SmtpHost     string        `env:"SMTP_HOST" envDefault:"localhost"`
	SmtpPort     int           `env:"SMTP_PORT" envDefault:"587"`
	SmtpUsername string        `env:"SMTP_USERNAME"`
	SmtpPassword string        `env:"SMTP_PASSWORD"`
	SmtpFrom     string        `env:"SMTP_FROM" envDefault:"Streemi <no-reply@streemi.local>"`
	SmtpSSL      bool          `env:"SMTP_SSL"`
	SmtpTimeout  time.Duration `env:"SMTP_TIMEOUT" envDefault:"10s"`

	ResendApiKey string `env:"RESEND_API_KEY"`
	ResendFrom   string `env:"RESEND_FROM" envDefault:"Streemi <no-reply@streemi.local>"`

	RabbitmqURL               string `env:"RABBITMQ_URL"`
	RabbitmqNotificationQueue string `env:"RABBITMQ_NOTIFICATION_QUEUE" envDefault:"notifications"`

	SentryDsn *url.URL `env:"SENTRY_DSN"`
}

func Load() (*Config, error) {
	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	config := &Config{}
	if err := env.Parse(config, opts); err != nil {
		return nil, err
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	if c.PasswordResetTokenTTL <= 0 {
		return fmt.Errorf("PASSWORD_RESET_TOKEN_TTL must be positive")
	}
	if c.CsrfTokenTTL <= 0 {
		return fmt.Errorf("CSRF_TOKEN_TTL must be positive")
	}
	if err := validateNotifier("NOTIFIER", c.Notifier, true); err != nil {
		return err
	}
	if err := validateNotifier("DELIVERY_NOTIFIER", c.DeliveryNotifier, false); err != nil {
		return err
	}
	if c.Notifier == NOTIFIER_AMQP && c.RabbitmqURL == "" {
		return fmt.Errorf("RABBITMQ_URL must be set when NOTIFIER is %s", NOTIFIER_AMQP)
	}
	return nil
}

func validateNotifier(name string, value string, allowQueue bool) error {
	switch value {
	case NOTIFIER_SES, NOTIFIER_SMTP, NOTIFIER_RESEND:
		return nil
	case NOTIFIER_AMQP:
		if allowQueue {
			return nil
		}
	}
	return fmt.Errorf("invalid %s value: %q", name, value)
}
