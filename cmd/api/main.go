package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"confbooking/config"
	authadapter "confbooking/internal/adapters/auth"
	emailadapter "confbooking/internal/adapters/email"
	delivery "confbooking/internal/delivery/http"
	"confbooking/internal/delivery/http/controllers"
	"confbooking/internal/delivery/http/middleware"
	"confbooking/internal/repository/postgres"
	"confbooking/internal/services"
)

const serviceTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("ping database", "err", err)
		os.Exit(1)
	}

	hasher := authadapter.NewBcryptHasher(bcrypt.DefaultCost)
	tokenIssuer, tokenVerifier := authadapter.NewJWTCodec(cfg.JWTSecret)

	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.MailProvider,
		FromAddress: cfg.MailFromAddress,
		FromName:    cfg.MailFromName,
		SES: emailadapter.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("create mailer", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, emailadapter.NewTemplateRenderer())

	conferenceRepo := postgres.NewConferenceRepository(db)
	priceRepo := postgres.NewPriceRepository(db)
	userRepo := postgres.NewUserRepository(db)
	txManager := postgres.NewTxManager(db)

	conferenceService := services.NewConferenceService(conferenceRepo, priceRepo, serviceTimeout)
	bookingService := services.NewBookingService(txManager, hasher, emailService, serviceTimeout)
	authService := services.NewAuthService(userRepo, hasher, tokenIssuer, cfg.TokenExpiry)

	conferenceController := controllers.NewConferenceController(logger, conferenceService)
	bookingController := controllers.NewBookingController(logger, bookingService)
	authController := controllers.NewAuthController(logger, authService)

	mux := delivery.NewRouter(conferenceController, bookingController, authController, tokenVerifier)
	var handler http.Handler = middleware.LoggingMiddleware(logger, mux)
	if len(cfg.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.AllowedOrigins, handler)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
	logger.Info("server stopped")
}
