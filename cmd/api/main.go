// Package main is the entrypoint for the TaskTide API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tasktide/tasktide/internal/auth"
	"github.com/tasktide/tasktide/internal/config"
	"github.com/tasktide/tasktide/internal/handler"
	"github.com/tasktide/tasktide/internal/kv"
	"github.com/tasktide/tasktide/internal/metrics"
	"github.com/tasktide/tasktide/internal/middleware"
	"github.com/tasktide/tasktide/internal/model"
	"github.com/tasktide/tasktide/internal/server"
	"github.com/tasktide/tasktide/internal/service"
	"github.com/tasktide/tasktide/internal/store"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize the key-value store driver
	driver, err := newKVStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to initialize store",
			slog.String("driver", cfg.StoreDriver),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
	defer driver.Close()
	logger.Info("store ready", "driver", cfg.StoreDriver)

	// Initialize persistence adapter and services
	st := store.New(driver, logger)
	recorder := metrics.NewNoop()
	sessions := auth.NewManager(st, logger, recorder)
	taskList := service.NewTaskList(st, logger, recorder)

	// Reload the task list whenever the session identity changes
	sessions.OnChange(func(ctx context.Context, user *model.User) {
		if err := taskList.SetUser(ctx, user); err != nil {
			logger.Error("failed to reload tasks", "error", err)
		}
	})

	// Restore a persisted session, if any
	if err := sessions.Restore(ctx); err != nil {
		logger.Error("failed to restore session", "error", err)
		os.Exit(1)
	}

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(st)
	authHandler := handler.NewAuthHandler(sessions, logger)
	taskHandler := handler.NewTaskHandler(taskList, logger)

	// Setup router
	r := setupRouter(h, healthHandler, authHandler, taskHandler, sessions, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	srv.OnShutdown("kv store", func(ctx context.Context) error {
		return driver.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"store_driver", cfg.StoreDriver,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// newKVStore builds the configured key-value store driver.
func newKVStore(ctx context.Context, cfg *config.Config) (kv.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverRedis:
		return kv.NewRedis(ctx, cfg.RedisURL)
	case config.DriverPostgres:
		return kv.NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return kv.NewMemory(cfg.StoreLatency), nil
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	taskHandler *handler.TaskHandler,
	sessions *auth.Manager,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	// Health endpoints (no session required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Root info endpoint
	r.Get("/", h.Hello)

	r.Route("/api/v1", func(r chi.Router) {
		// Session lifecycle
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/session", authHandler.Session)
		})

		// Task operations require an established session
		r.Route("/tasks", func(r chi.Router) {
			r.Use(middleware.RequireSession(logger, sessions))

			r.Get("/", taskHandler.List)
			r.Post("/", taskHandler.Create)
			r.Post("/{id}/toggle", taskHandler.Toggle)
			r.Delete("/{id}", taskHandler.Delete)
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

// redactURL strips credentials from a connection URL for logging.
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}
