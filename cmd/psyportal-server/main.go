package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/psyportal/psyportal/internal/config"
	"github.com/psyportal/psyportal/internal/domain/appointment"
	"github.com/psyportal/psyportal/internal/domain/center"
	"github.com/psyportal/psyportal/internal/domain/identity"
	"github.com/psyportal/psyportal/internal/domain/objective"
	"github.com/psyportal/psyportal/internal/domain/patient"
	"github.com/psyportal/psyportal/internal/domain/payment"
	"github.com/psyportal/psyportal/internal/platform/apperr"
	"github.com/psyportal/psyportal/internal/platform/auth"
	"github.com/psyportal/psyportal/internal/platform/db"
	"github.com/psyportal/psyportal/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "psyportal-server",
		Short: "Psychology practice management API server",
	}

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	connectCtx, cancelConnect := context.WithTimeout(ctx, time.Duration(cfg.DBConnectTimeoutSecs)*time.Second)
	client, database, err := db.Connect(connectCtx, cfg.MongoURL, cfg.DBName)
	cancelConnect()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("disconnect database")
		}
	}()
	logger.Info().Str("db", cfg.DBName).Msg("connected to database")

	if err := db.EnsureIndexes(ctx, database); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure indexes")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperr.EchoErrorHandler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(echomw.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Services
	tokens := auth.NewTokenIssuer(cfg.JWTSecretKey, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute)

	userRepo := identity.NewMongoRepo(database)
	identitySvc := identity.NewService(userRepo, tokens)

	centerRepo := center.NewMongoRepo(database)
	centerSvc := center.NewService(centerRepo)

	patientRepo := patient.NewMongoRepo(database)
	patientSvc := patient.NewService(patientRepo, centerSvc)

	apptRepo := appointment.NewMongoRepo(database)
	apptSvc := appointment.NewService(apptRepo, patientSvc)

	objectiveRepo := objective.NewMongoRepo(database)
	objectiveSvc := objective.NewService(objectiveRepo, patientSvc)

	paymentRepo := payment.NewMongoRepo(database)
	paymentSvc := payment.NewService(paymentRepo, patientSvc)

	// Routes
	api := e.Group("/api")
	api.GET("/health", db.HealthHandler(client))

	authed := e.Group("/api", auth.BearerAuth(tokens, identitySvc.ResolveIdentity))

	identity.NewHandler(identitySvc, centerSvc).RegisterRoutes(api, authed)
	center.NewHandler(centerSvc).RegisterRoutes(authed)
	patient.NewHandler(patientSvc).RegisterRoutes(authed)
	appointment.NewHandler(apptSvc).RegisterRoutes(authed)
	objective.NewHandler(objectiveSvc).RegisterRoutes(authed)
	payment.NewHandler(paymentSvc).RegisterRoutes(authed)

	// Start server with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
