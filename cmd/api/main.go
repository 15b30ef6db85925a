// Package main is the entrypoint for the Worksheesh web server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/worksheesh/worksheesh/internal/auth"
	"github.com/worksheesh/worksheesh/internal/cache"
	"github.com/worksheesh/worksheesh/internal/config"
	"github.com/worksheesh/worksheesh/internal/handler"
	"github.com/worksheesh/worksheesh/internal/metrics"
	"github.com/worksheesh/worksheesh/internal/middleware"
	"github.com/worksheesh/worksheesh/internal/repository"
	"github.com/worksheesh/worksheesh/internal/server"
	"github.com/worksheesh/worksheesh/internal/service"
	"github.com/worksheesh/worksheesh/internal/view"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if cfg.RunMigrations {
		if err := repository.Migrate(ctx, cfg.DatabaseURL); err != nil {
			logger.Error("failed to run migrations", slog.String("error", sanitizeError(err, cfg.DatabaseURL)))
			os.Exit(1)
		}
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL, repository.WithPoolSize(cfg.DBMaxConns, cfg.DBMinConns))
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL, cache.WithPoolSize(cfg.RedisPoolSize))
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		repo.Close()
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	r, err := buildHandler(cfg, repo, cacheClient, logger)
	if err != nil {
		logger.Error("failed to build handlers", "error", err)
		repo.Close()
		_ = cacheClient.Close()
		os.Exit(1)
	}

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(context.Context) error {
		return cacheClient.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"base_url", cfg.BaseURL,
		"env", cfg.AppEnv,
		"metrics", cfg.MetricsEnabled,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// buildHandler wires services, handlers and middleware into the router.
func buildHandler(cfg *config.Config, repo *repository.Repository, cacheClient *cache.Cache, logger *slog.Logger) (*chi.Mux, error) {
	keys, err := auth.DeriveKeys(cfg.SessionSecret)
	if err != nil {
		return nil, fmt.Errorf("derive session keys: %w", err)
	}
	signer := auth.NewSigner(keys, cfg.SessionTTL)

	renderer, err := view.New()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	var recorder metrics.Recorder = metrics.NewNoop()
	var metricsExporter http.Handler
	if cfg.MetricsEnabled {
		prom := metrics.NewPrometheus()
		recorder = prom
		metricsExporter = prom.Handler()
	}

	userService := service.NewUserService(repo, cacheClient, recorder, logger)
	worksheetService := service.NewWorksheetService(repo, service.UnimplementedCreator{}, recorder, logger)

	cookie := handler.CookieConfig{Name: cfg.SessionCookieName, Secure: cfg.CookieSecure()}
	handlers := routeHandlers{
		root:       handler.New(),
		health:     handler.NewHealthHandler(repo, cacheClient),
		metrics:    handler.NewMetricsHandler(metricsExporter),
		users:      handler.NewUserHandler(userService, cookie, logger),
		worksheets: handler.NewWorksheetHandler(worksheetService, cfg.Origin(), logger),
		pages: handler.NewPageHandler(handler.PageConfig{
			Users:      userService,
			Worksheets: worksheetService,
			Renderer:   renderer,
			CSRF:       keys,
			Sessions:   cacheClient,
			Cookie:     cookie,
			Origin:     cfg.Origin(),
			Logger:     logger,
		}),
	}

	return setupRouter(handlers, signer, keys, cacheClient, recorder, cfg, logger), nil
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

type routeHandlers struct {
	root       *handler.Handler
	health     *handler.HealthHandler
	metrics    *handler.MetricsHandler
	users      *handler.UserHandler
	worksheets *handler.WorksheetHandler
	pages      *handler.PageHandler
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h routeHandlers,
	signer *auth.Signer,
	keys *auth.Keys,
	cacheClient *cache.Cache,
	recorder metrics.Recorder,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	securityCfg := middleware.DefaultSecurityConfig()
	securityCfg.IsDevelopment = cfg.IsDevelopment()
	securityCfg.MaxRequestBodySize = cfg.MaxRequestBodySize

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Instrument(recorder))
	r.Use(middleware.Security(securityCfg))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(securityCfg.MaxRequestBodySize))

	// Probes, metrics and static assets need no session.
	r.Get("/healthz", h.health.Healthz)
	r.Get("/readyz", h.health.Readyz)
	r.Get("/metrics", h.metrics.Metrics)
	r.Get("/openapi.yaml", h.root.OpenAPI)
	static := view.Static()
	staticRoutes := r.With(middleware.StaticCache(staticMaxAge))
	staticRoutes.Handle("/images/*", static)
	staticRoutes.Handle("/assets/*", static)

	sessionCfg := middleware.SessionConfig{
		Logger:     logger,
		Parser:     signer,
		Store:      cacheClient,
		CookieName: cfg.SessionCookieName,
		Metrics:    recorder,
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:       logger,
		Limiter:      cacheClient,
		Metrics:      recorder,
		Enabled:      cfg.RateLimitEnabled,
		APIPerMinute: cfg.RateLimitAPIPerMinute,
		APIBurst:     cfg.RateLimitAPIBurst,
		PageRPS:      cfg.RateLimitPageRPS,
		PageBurst:    cfg.RateLimitPageBurst,
	}

	// Server-rendered pages
	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitIP(rateLimitCfg))
		r.Use(middleware.Session(sessionCfg))
		r.Use(middleware.RequirePageSession(cfg.SignInURL))
		r.Use(middleware.CSRF(keys, logger))

		r.Get("/", h.root.Root)
		r.Get("/my-worksheets", h.pages.MyWorksheets)
		r.Post("/worksheets", h.pages.CreateWorksheet)
		r.Post("/account/delete", h.pages.DeleteAccount)
		r.Post("/signout", h.pages.SignOut)
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(sessionCfg))
		r.Use(middleware.RequireSession)
		r.Use(middleware.RateLimitSession(rateLimitCfg))

		r.Get("/users/me", h.users.Me)
		r.Delete("/users/me", h.users.Delete)

		r.Get("/worksheets", h.worksheets.List)
		r.Post("/worksheets", h.worksheets.Create)
	})

	r.NotFound(h.root.NotFound)
	r.MethodNotAllowed(h.root.MethodNotAllowed)

	return r
}

// staticMaxAge is short because asset file names are not content-hashed.
const staticMaxAge = time.Hour

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
