// Package main is the entry point for the day planner API server.
// Its sole responsibility is wiring dependencies together and starting the
// server. No business logic belongs here.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/pvandewal/dayout/backend/internal/config"
	"github.com/pvandewal/dayout/backend/internal/genai"
	"github.com/pvandewal/dayout/backend/internal/handler"
	"github.com/pvandewal/dayout/backend/internal/mail"
	"github.com/pvandewal/dayout/backend/internal/middleware"
	"github.com/pvandewal/dayout/backend/internal/repo"
	"github.com/pvandewal/dayout/backend/internal/service"
	"github.com/pvandewal/dayout/backend/internal/source"
	"github.com/pvandewal/dayout/backend/migrations"
)

// maxRequestBody caps incoming request bodies. The largest legitimate payload
// is a full recommendation list posted to start a session.
const maxRequestBody = 1 << 20 // 1 MiB

func main() {
	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if err := runMigrations(cfg.DatabaseURL); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// --- Sources ----------------------------------------------------------
	sources := []source.Source{
		source.NewCuratedStore(pool, logger),
		source.NewStaticCatalog(logger),
	}
	if cfg.EventsFeedURL != "" {
		sources = append(sources, source.NewTicketingFeed(source.TicketingConfig{
			BaseURL: cfg.EventsFeedURL,
			APIKey:  cfg.EventsFeedKey,
			Timeout: cfg.SourceTimeout,
		}, logger))
	} else {
		slog.Info("EVENTS_FEED_URL not set; live ticketing source disabled")
	}
	aggregator := source.NewAggregator(sources, cfg.SourceTimeout, logger)

	// --- Generation provider ----------------------------------------------
	var provider genai.GenerationProvider
	switch cfg.GenAIProvider {
	case "anthropic":
		provider = genai.NewAnthropicProvider(cfg.AnthropicKey, cfg.GenAIModel, "")
	default:
		provider = genai.NewOpenAIProvider(cfg.OpenAIKey, cfg.GenAIModel)
	}
	invoker := genai.NewInvoker(provider, cfg.GenAITimeout, logger)
	slog.Info("generation provider configured", "provider", provider.Name())

	// --- Services ---------------------------------------------------------
	tripRepo := repo.NewTripRepo(pool)
	confirmationRepo := repo.NewConfirmationRepo(pool)
	sessions := repo.NewSessionStore(cfg.SessionTTL)

	recommendations := service.NewRecommendationService(aggregator, invoker, logger)
	itineraries := service.NewItineraryService(sessions, tripRepo)
	trips := service.NewTripService(tripRepo, confirmationRepo, cfg.PublicBaseURL)
	calendar := service.NewCalendarService(tripRepo, cfg.MailFrom)

	if cfg.SMTPAddr == "" {
		slog.Warn("SMTP_ADDR not set; invitation delivery will fail")
	}
	mailer := mail.NewSMTPMailer(cfg.SMTPAddr, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	invites := service.NewInviteService(tripRepo, calendar, mailer, trips.ShareURL, logger)

	// --- Router -----------------------------------------------------------
	// Middleware order: RequestID first so the logger can pick the ID up,
	// Recoverer innermost so panics are logged with full request context.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(maxRequestBody))

	srv := handler.NewServer(recommendations, itineraries, trips, calendar, invites)
	r.Mount("/", srv.Routes())

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second, // generation calls can run long
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// runMigrations applies all pending embedded migrations. goose needs a
// database/sql connection, so a short-lived one is opened alongside the pool.
func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return err
	}
	results, err := provider.Up(context.Background())
	if err != nil {
		return err
	}
	if len(results) > 0 {
		slog.Info("migrations applied", "count", len(results))
	}
	return nil
}
