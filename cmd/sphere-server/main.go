package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sphere-wallet/sphere-gateway/internal/auth"
	"github.com/sphere-wallet/sphere-gateway/internal/circle"
	"github.com/sphere-wallet/sphere-gateway/internal/config"
	"github.com/sphere-wallet/sphere-gateway/internal/crypto"
	"github.com/sphere-wallet/sphere-gateway/internal/logger"
	"github.com/sphere-wallet/sphere-gateway/internal/notify"
	"github.com/sphere-wallet/sphere-gateway/internal/server"
	"github.com/sphere-wallet/sphere-gateway/internal/version"
)

//	@title			sphere-server
//	@description	sphere-server is the backend gateway for the Sphere wallet app.
//	@description
//	@description	It proxies wallet-management operations to the Circle user-controlled
//	@description	wallets platform on behalf of authenticated users, and turns signed
//	@description	platform webhook notifications into notification emails.
//	@description
//	@description	## Common Error Responses
//	@description	All endpoints may return:
//	@description	- `413` Request body exceeds size limit
//	@description	- `429` Rate limit exceeded
//	@description	- `500` Internal server error
//	@description
//	@description	## Request Limits
//	@description	All endpoints are protected by:
//	@description	- **Rate limiting**: Configurable requests per second (see env vars) - default 100 rps (set to 0 to disable)
//	@description	- **Request size limits**: Configurable (see env vars) - default 1MB
//	@description
//	@description	## Authentication & Authorization
//	@description
//	@description	The /api endpoints require an identity token issued by the configured
//	@description	identity provider, passed as the `credential` query parameter.
//	@description	The /webhooks endpoint is authenticated by the platform's ECDSA
//	@description	signature over the notification body.
//	@description
//	@license.name	MIT

//	@tag.name			Users
//	@tag.description	Signin, user data and user initialization

//	@tag.name			Wallets
//	@tag.description	Wallet creation and token balances

//	@tag.name			Transactions
//	@tag.description	Transaction history and outbound transfers

//	@tag.name			PIN
//	@tag.description	PIN change and recovery

//	@tag.name			Webhooks
//	@tag.description	Platform notification intake

//	@tag.name			Common
//	@tag.description	Server API endpoints (health, version)

func main() {
	cmd := &cobra.Command{
		Use:   "sphere-server",
		Short: "Sphere wallet gateway server",
		Long:  `sphere-server proxies wallet operations to the custodial wallet platform and emails users about webhook notifications`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	v := version.Get()
	cmd.Version = fmt.Sprintf("%s (built %s, commit %s)", v.Version, v.BuildDate, v.GitCommit)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.NewServerConfig()
	if err != nil {
		log.Printf("failed to load configuration: %v", err.Error())
		os.Exit(1)
	}

	appLogger := logger.InitLogger(logger.ParseLogLevel(cfg.LogLevel), cfg.Environment)

	appLogger.Info("Configuration loaded",
		slog.String("ENVIRONMENT", cfg.Environment),
		slog.String("HOST", cfg.Host),
		slog.Int("PORT", cfg.Port),
		slog.String("LOG_LEVEL", cfg.LogLevel),
		slog.String("CIRCLE_BASE_URL", cfg.CircleBaseURL),
		slog.String("IDENTITY_JWKS_URL", cfg.IdentityJWKSURL),
		slog.String("SMTP_HOST", cfg.SMTPHost),
		slog.Int("SMTP_PORT", cfg.SMTPPort),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wallets := circle.NewClient(cfg.CircleBaseURL, cfg.CircleAPIKey,
		circle.WithTimeout(cfg.CircleHTTPTimeout))

	authenticator, err := auth.NewIDTokenAuthenticator(ctx, cfg.IdentityJWKSURL, cfg.IdentityAudience, appLogger)
	if err != nil {
		appLogger.Error("Failed to set up identity token verification", slog.String("error", err.Error()))
		os.Exit(1)
	}

	sender, err := notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.MailAccount, cfg.MailPassword)
	if err != nil {
		appLogger.Error("Failed to set up mail client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	verifier := crypto.NewVerifier(wallets, appLogger)
	dispatcher := notify.NewDispatcher(verifier, wallets, sender, appLogger)

	appLogger.Info("Starting server", slog.String("version", version.Get().Version))

	server := server.NewServer(cfg, appLogger, wallets, authenticator, dispatcher)

	if err := server.Start(ctx); err != nil {
		appLogger.Error("Server error", slog.String("error", err.Error()))
		return err
	}

	appLogger.Info("server shutdown complete")
	return nil
}
