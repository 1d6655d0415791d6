package config

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
)

// Environment variables with defaults
type ServerEnvironment struct {

	// http server settings
	Environment           string        `env:"ENVIRONMENT,default=dev"`
	Host                  string        `env:"HOST,default=0.0.0.0"`
	Port                  int           `env:"PORT,default=3000"`
	LogLevel              string        `env:"LOG_LEVEL,default=debug"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT,default=10s"`
	ReadTimeout           time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout          time.Duration `env:"WRITE_TIMEOUT,default=15s"`
	IdleTimeout           time.Duration `env:"IDLE_TIMEOUT,default=60s"`
	RateLimitRPS          int32         `env:"RATE_LIMIT_RPS,default=100"`
	RateLimitBurst        int32         `env:"RATE_LIMIT_BURST,default=200"`
	MaxRequestSize        int64         `env:"MAX_REQUEST_SIZE,default=1048576"`

	// wallet platform settings
	CircleBaseURL     string        `env:"CIRCLE_BASE_URL,default=https://api.circle.com"`
	CircleHTTPTimeout time.Duration `env:"CIRCLE_HTTP_TIMEOUT,default=30s"`

	// identity token settings - the JWKS URL points at the keys that sign the
	// identity tokens presented by end users
	IdentityJWKSURL  string `env:"IDENTITY_JWKS_URL,default=https://www.googleapis.com/oauth2/v3/certs"`
	IdentityAudience string `env:"IDENTITY_AUDIENCE"`

	// webhook dispatch settings
	WebhookDispatchTimeout time.Duration `env:"WEBHOOK_DISPATCH_TIMEOUT,default=30s"`

	// outbound mail settings
	SMTPHost string `env:"SMTP_HOST,default=smtp.gmail.com"`
	SMTPPort int    `env:"SMTP_PORT,default=587"`

	// Required configuration - must be set by environment variables
	CircleAPIKey string `env:"CIRCLE_API_KEY,required=true"`
	AppID        string `env:"APP_ID,required=true"`
	MailAccount  string `env:"MAIL_ACCOUNT,required=true"`
	MailPassword string `env:"MAIL_PASSWORD,required=true"`
}

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"prod":    true,
	"staging": true,
}

// NewServerConfig loads environment variables and returns a ServerEnvironment struct that contains the values
func NewServerConfig() (*ServerEnvironment, error) {
	var cfg ServerEnvironment

	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateConfig checks for required env variables
func validateConfig(cfg *ServerEnvironment) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid ENVIRONMENT: %s", cfg.Environment)
	}
	if cfg.SMTPPort < 1 || cfg.SMTPPort > 65535 {
		return fmt.Errorf("SMTP_PORT must be between 1 and 65535")
	}
	if cfg.MaxRequestSize < 1 {
		return fmt.Errorf("MAX_REQUEST_SIZE must be at least 1 byte")
	}
	return nil
}
