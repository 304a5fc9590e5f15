// Package app wires configuration, storage, domain services, and the HTTP
// server together.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/endirim/backend/internal/domain/catalog"
	"github.com/endirim/backend/internal/domain/offer"
	"github.com/endirim/backend/internal/domain/purchase"
	"github.com/endirim/backend/internal/domain/recommend"
	"github.com/endirim/backend/internal/handler"
	"github.com/endirim/backend/internal/storage/catalogfile"
	"github.com/endirim/backend/internal/storage/postgres"
	"github.com/endirim/backend/internal/summary"
	"github.com/endirim/backend/pkg/health"
	"github.com/endirim/backend/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles
// graceful shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("storage", cfg.Storage.Driver),
	)

	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	var (
		products catalog.Repository
		offers   offer.Repository
		demo     *recommend.Profile
	)
	switch cfg.Storage.Driver {
	case "postgres":
		pool, err := postgres.NewPool(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			return errors.Wrap(err, "create db pool")
		}
		defer pool.Close()

		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return errors.Wrap(err, "run migrations")
		}

		healthSvc.AddReadinessCheck("postgres", 5*time.Second, health.PingCheck(pool))
		products = postgres.NewProductRepository(pool)
		offers = postgres.NewOfferRepository(pool)
	default:
		store, err := catalogfile.Open(cfg.Storage.ProductsFile, cfg.Storage.OffersFile)
		if err != nil {
			return errors.Wrap(err, "open catalog snapshot")
		}
		products = store.Products()
		offers = store.Offers()
		if profile, ok := store.DemoProfile(); ok {
			demo = &profile
		}
	}

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	var summarizer handler.Summarizer
	if cfg.Summary.Enabled && cfg.Summary.APIKey != "" {
		summarizer = summary.NewClient(summary.Config{
			BaseURL:  cfg.Summary.BaseURL,
			APIKey:   cfg.Summary.APIKey,
			Model:    cfg.Summary.Model,
			Language: cfg.Summary.Language,
			Timeout:  cfg.Summary.Timeout,
		})
		lg.Info("Purchase summaries enabled", zap.String("model", cfg.Summary.Model))
	}

	resolver := purchase.NewService(products, offers)

	h := handler.NewHandler(
		handler.Config{TopN: cfg.Recommend.TopN},
		products,
		offers,
		resolver,
		recommend.NewAffinityScorer(),
		summarizer,
		demo,
	)

	router := chi.NewRouter()
	router.Get("/livez", healthSvc.LiveEndpoint)
	router.Get("/readyz", healthSvc.ReadyEndpoint)
	router.Mount("/", h.Routes())

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(router,
			httpmiddleware.Recovery(),
			cors.Handler(cors.Options{
				AllowedOrigins:   cfg.CORS.Origins,
				AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
				AllowedHeaders:   []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
			func(next http.Handler) http.Handler {
				return otelhttp.NewHandler(next, "endirim-api",
					otelhttp.WithTracerProvider(m.TracerProvider()),
					otelhttp.WithMeterProvider(m.MeterProvider()),
				)
			},
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
