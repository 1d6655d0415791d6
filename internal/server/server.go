package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sphere-wallet/sphere-gateway/internal/auth"
	"github.com/sphere-wallet/sphere-gateway/internal/circle"
	"github.com/sphere-wallet/sphere-gateway/internal/config"
	"github.com/sphere-wallet/sphere-gateway/internal/notify"
	"github.com/sphere-wallet/sphere-gateway/internal/server/handlers"
	"github.com/sphere-wallet/sphere-gateway/internal/server/middleware"
	"github.com/sphere-wallet/sphere-gateway/internal/version"
)

type Server struct {
	config        *config.ServerEnvironment
	logger        *slog.Logger
	router        *chi.Mux
	wallets       *circle.Client
	authenticator auth.Authenticator
	dispatcher    *notify.Dispatcher
}

func NewServer(
	cfg *config.ServerEnvironment,
	logger *slog.Logger,
	wallets *circle.Client,
	authenticator auth.Authenticator,
	dispatcher *notify.Dispatcher,
) *Server {
	server := &Server{
		config:        cfg,
		logger:        logger,
		router:        chi.NewRouter(),
		wallets:       wallets,
		authenticator: authenticator,
		dispatcher:    dispatcher,
	}

	server.setupMiddleware()
	server.registerRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.Timeout(60 * time.Second))
	s.router.Use(middleware.RequestLogging(s.logger))
	s.router.Use(middleware.SecurityHeaders(s.config.Environment))
	s.router.Use(middleware.RateLimit(s.config.RateLimitRPS, s.config.RateLimitBurst))
	s.router.Use(middleware.RequestSizeLimit(s.config.MaxRequestSize))
}

func (s *Server) registerRoutes() {
	s.router.Get("/health", handlers.HandleHealth)

	v := version.Get()
	s.router.Get("/version", handlers.HandleVersion(v.Version, v.BuildDate))

	userHandler := handlers.NewUserHandler(s.wallets, s.config.AppID)
	walletHandler := handlers.NewWalletHandler(s.wallets, s.config.AppID)
	transactionHandler := handlers.NewTransactionHandler(s.wallets, s.config.AppID)
	pinHandler := handlers.NewPinHandler(s.wallets, s.config.AppID)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(middleware.Authenticate(s.authenticator))

		r.Get("/validateSignin", userHandler.ValidateSignin)
		r.Get("/initialiseCreatedUser", userHandler.InitialiseUser)
		r.Get("/getUserData", userHandler.GetUserData)
		r.Get("/fetchTransactions", transactionHandler.FetchTransactions)
		r.Get("/changePin", pinHandler.ChangePin)
		r.Get("/restorePin", pinHandler.RestorePin)
		r.Get("/createNewWallet", walletHandler.CreateWallet)
		r.Get("/getTokens", walletHandler.GetTokens)
		r.Get("/sendTransaction", transactionHandler.SendTransaction)
	})

	webhookHandler := handlers.NewWebhookHandler(s.dispatcher, s.config.WebhookDispatchTimeout, s.logger)
	s.router.Post("/webhooks", webhookHandler.HandleWebhook)
}

// Router exposes the configured routes, for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) Start(ctx context.Context) error {
	serverAddr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	httpServer := &http.Server{
		Addr:         serverAddr,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("service listening",
			slog.String("environment", s.config.Environment),
			slog.String("address", serverAddr))

		err := httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.config.ServerShutdownTimeout)
	defer shutdownCancel()

	s.logger.Info("shutting down HTTP server")

	err := httpServer.Shutdown(shutdownCtx)
	if err != nil {
		s.logger.Warn("HTTP server shutdown error",
			slog.String("error", err.Error()))
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}

	s.logger.Info("HTTP server shutdown complete")
	return nil
}
