// Package main is the entrypoint for the MySpeakerHelper API server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/speakhelper/speakhelper/internal/auth"
	"github.com/speakhelper/speakhelper/internal/config"
	"github.com/speakhelper/speakhelper/internal/handler"
	"github.com/speakhelper/speakhelper/internal/history"
	"github.com/speakhelper/speakhelper/internal/llm"
	"github.com/speakhelper/speakhelper/internal/metrics"
	"github.com/speakhelper/speakhelper/internal/middleware"
	"github.com/speakhelper/speakhelper/internal/relay"
	"github.com/speakhelper/speakhelper/internal/repository"
	"github.com/speakhelper/speakhelper/internal/server"
	"github.com/speakhelper/speakhelper/internal/supabase"
)

func main() {
	// Cancelled on SIGINT/SIGTERM; Run drains the server when it fires.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Identity service and REST datastore
	sb, err := supabase.New(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey, supabase.WithTimeout(cfg.UpstreamTimeout))
	if err != nil {
		logger.Error("failed to create supabase client",
			slog.String("error", err.Error()),
			slog.String("supabase_url", redactURL(cfg.SupabaseURL)),
		)
		os.Exit(1)
	}

	var (
		store     history.Store         = sb
		datastore handler.HealthChecker = sb
		closers   []func()
	)

	// Optional direct Postgres connection
	if cfg.UsesDirectDatabase() {
		repo, err := repository.New(ctx, cfg.DatabaseURL, repository.WithUserRole(cfg.DatabaseUserRole))
		if err != nil {
			logger.Error(
				"failed to connect to database",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
				slog.String("database_url", redactURL(cfg.DatabaseURL)),
			)
			os.Exit(1)
		}
		closers = append(closers, repo.Close)
		store, datastore = repo, repo
		logger.Info("connected to database", "user_role", cfg.DatabaseUserRole)
	}

	// LLM provider
	provider := llm.NewOpenAI(cfg.OpenAIAPIKey,
		llm.WithBaseURL(cfg.OpenAIBaseURL),
		llm.WithChatModel(cfg.OpenAIChatModel),
		llm.WithTranscriptionModel(cfg.OpenAITranscriptionModel),
		llm.WithHTTPClient(&http.Client{Timeout: cfg.UpstreamTimeout}),
	)

	// Initialize services
	metricsRecorder := metrics.NewInMemory()
	relayService := relay.NewService(provider, provider, metricsRecorder)
	historyService := history.NewService(store, metricsRecorder)
	gate := auth.NewGate(sb)

	// Initialize handlers
	routes := routes{
		root:    handler.New(),
		health:  handler.NewHealthHandler(datastore, sb),
		metrics: handler.NewMetricsHandler(metricsRecorder),
		relay:   handler.NewRelayHandler(relayService, logger, cfg.MaxUploadMemory),
		history: handler.NewHistoryHandler(historyService, logger),
		authCfg: middleware.AuthConfig{
			Logger:        logger,
			Authenticator: gate,
			Metrics:       metricsRecorder,
		},
	}

	// Setup router
	r := setupRouter(routes, cfg, logger)

	// Create and run server
	srv := server.New(r, server.Config{
		Addr:            cfg.Addr(),
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	for _, closeFn := range closers {
		srv.OnShutdown("database", func(context.Context) error {
			closeFn()
			return nil
		})
	}

	logger.Info("starting server",
		"addr", cfg.Addr(),
		"env", cfg.AppEnv,
		"chat_model", cfg.OpenAIChatModel,
		"direct_database", cfg.UsesDirectDatabase(),
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
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

// routes bundles the handlers mounted by setupRouter.
type routes struct {
	root    *handler.Handler
	health  *handler.HealthHandler
	metrics *handler.MetricsHandler
	relay   *handler.RelayHandler
	history *handler.HistoryHandler
	authCfg middleware.AuthConfig
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(rt routes, cfg *config.Config, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	if origins := cfg.GetCORSAllowedOrigins(); len(origins) > 0 {
		corsCfg.AllowedOrigins = origins
	}

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))

	// Health and metrics endpoints
	r.Get("/healthz", rt.health.Healthz)
	r.Get("/readyz", rt.health.Readyz)
	r.Get("/metrics", rt.metrics.Metrics)

	// Root info endpoint
	r.Get("/", rt.root.Welcome)

	// Practice history (requires a verified bearer token)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser(rt.authCfg))
		r.Post("/practice-history", rt.history.Create)
		r.Get("/practice-history", rt.history.List)
	})

	// LLM relay endpoints (no authentication)
	r.Post("/email-check", rt.relay.EmailCheck)
	r.Post("/translate", rt.relay.Translate)
	r.Post("/generate-phrases", rt.relay.GeneratePhrases)
	r.Post("/speech-to-text", rt.relay.SpeechToText)
	r.Post("/speaking-practice", rt.relay.SpeakingPractice)

	// 404 and 405 handlers
	r.NotFound(rt.root.NotFound)
	r.MethodNotAllowed(rt.root.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

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

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
