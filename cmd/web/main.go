package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"northwind-dashboard/internal/config"
	"northwind-dashboard/internal/loader"
	"northwind-dashboard/internal/middleware"
	"northwind-dashboard/internal/observability"
	"northwind-dashboard/internal/report"
	"northwind-dashboard/internal/server"
	"northwind-dashboard/internal/services"
	"northwind-dashboard/internal/ui/templates"
)

const (
	renderTimeout      = 10 * time.Second
	limiterSweepPeriod = time.Minute
	cacheMaxAge        = "private, max-age=60"
)

func dashboardHandler(analytics *services.Analytics, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		// An unloaded service still serves the page shell; the SSE request
		// then reports the unavailable data.
		filters, err := analytics.Filters(ctx)
		if err != nil {
			logger.Warn("dashboard rendered without filters", "error", err,
				"request_id", observability.GetRequestID(ctx))
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", cacheMaxAge)
		if err := templates.Dashboard(filters).Render(ctx, w); err != nil {
			logger.Error("render dashboard", "error", err)
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

func newHandler(cfg *config.Config, analytics *services.Analytics, rateLimiter *middleware.RateLimiter, logger *slog.Logger) http.Handler {
	srv := server.NewServer(analytics, logger, &server.TemplateHandlers{
		Dashboard: dashboardHandler(analytics, logger),
	})

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	return middlewareChain(srv)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"addr", cfg.Address(),
		"db_driver", cfg.Database.Driver,
		"date_policy", cfg.Report.DatePolicy,
	)

	datePolicy, err := report.ParseDatePolicy(cfg.Report.DatePolicy)
	if err != nil {
		logger.Error("invalid report configuration", "error", err)
		os.Exit(1)
	}

	analytics := services.NewAnalytics(report.Options{DatePolicy: datePolicy}, logger)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), cfg.Database.LoadTimeout)
	start := time.Now()
	err = analytics.Load(loadCtx, loader.New(cfg.Database, logger))
	cancelLoad()
	if err != nil {
		logger.Error("failed to load sales data", "error", err)
		os.Exit(1)
	}
	logger.Info("sales data loaded", "duration", time.Since(start))

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, analytics, rateLimiter, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)
	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("releasing sales snapshot", "stats", analytics.Stats())
		return nil
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return gracefulServer.Run(ctx)
	})
	g.Go(func() error {
		return rateLimiter.Run(ctx, limiterSweepPeriod)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
