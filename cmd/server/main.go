// IT support intake assistant server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/api"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/catalog"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/chat"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/config"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/identity"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/middleware"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/resolver"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/store"
	"github.com/bssshyamsundhar/Ticket-system-sub000/internal/uploads"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		slog.Error("Failed to load support catalog", "error", err, "path", cfg.CatalogPath)
		os.Exit(1)
	}
	slog.Info("Support catalog loaded", "categories", len(cat.Categories("Incident")))

	// The keyword resolver is always available; Gemini wraps it when an API
	// key is configured and falls back to it on any model failure.
	var res resolver.Resolver = resolver.NewKeyword(cat)
	if cfg.GeminiEnabled {
		gem, err := resolver.NewGemini(context.Background(), cfg.GeminiModel, res)
		if err != nil {
			slog.Warn("Gemini resolver unavailable, using keyword matching only", "error", err)
		} else {
			res = gem
			slog.Info("Gemini resolver enabled", "model", cfg.GeminiModel)
		}
	} else {
		slog.Info("Gemini resolver disabled (GEMINI_API_KEY not set)")
	}

	var uploadStore *uploads.Store
	if cfg.Storage.Enabled() {
		uploadStore, err = uploads.NewStore(uploads.Config{
			Endpoint:      cfg.Storage.Endpoint,
			Region:        cfg.Storage.Region,
			AccessKey:     cfg.Storage.AccessKey,
			SecretKey:     cfg.Storage.SecretKey,
			Bucket:        cfg.Storage.Bucket,
			UseSSL:        cfg.Storage.UseSSL,
			PublicBaseURL: cfg.Storage.PublicBaseURL,
		})
		if err != nil {
			slog.Error("Failed to initialize attachment storage", "error", err)
			os.Exit(1)
		}
		slog.Info("Attachment storage configured", "endpoint", cfg.Storage.Endpoint, "bucket", cfg.Storage.Bucket)
	} else {
		slog.Info("Attachment storage disabled (STORAGE_ENDPOINT not set)")
	}

	sessions, err := chat.NewSessions(cfg.SessionCacheSize)
	if err != nil {
		slog.Error("Failed to initialize session cache", "error", err)
		os.Exit(1)
	}

	chatSvc := chat.NewService(cat, res, repo, sessions)
	handler := api.NewHandler(repo, chatSvc, uploadStore)

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS([]string{"*"}))
	r.Use(identity.Middleware(repo, cfg.IsDevelopment()))

	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
