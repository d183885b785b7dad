package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/cognicart/cognicart/internal/config"
	dbRedis "github.com/cognicart/cognicart/internal/db/redis"
	"github.com/cognicart/cognicart/internal/domain/catalog"
	"github.com/cognicart/cognicart/internal/domain/rank"
	logpkg "github.com/cognicart/cognicart/internal/logger"
	"github.com/cognicart/cognicart/internal/metrics"
	"github.com/cognicart/cognicart/internal/repository/catalogfile"
	"github.com/cognicart/cognicart/internal/repository/reviewcache"
	chiTransport "github.com/cognicart/cognicart/internal/transport/chi"
	openaiTransport "github.com/cognicart/cognicart/internal/transport/openai"
	dealuc "github.com/cognicart/cognicart/internal/usecase/deal"
	healthuc "github.com/cognicart/cognicart/internal/usecase/health"
	interpretuc "github.com/cognicart/cognicart/internal/usecase/interpret"
	pipelineuc "github.com/cognicart/cognicart/internal/usecase/pipeline"
	rankinguc "github.com/cognicart/cognicart/internal/usecase/ranking"
	reviewuc "github.com/cognicart/cognicart/internal/usecase/review"
	"github.com/cognicart/cognicart/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting cognicart API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("catalog_path", cfg.Catalog.Path),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	// Load the product catalog once at startup.
	products, err := catalogfile.Load(cfg.Catalog.Path)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.Error(err))
	}
	catalogStore, err := catalog.NewStore(products)
	if err != nil {
		logger.Fatal("Failed to build catalog store", zap.Error(err))
	}
	logger.Info("Catalog loaded", zap.Int("products", catalogStore.Len()))

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterUnderstandingMetrics()

	ctx := context.Background()

	// Optional review analysis cache backed by Redis.
	var (
		reviewCache reviewuc.Cache
		cachePinger healthuc.CachePinger
		kvStore     *dbRedis.Store
	)
	if cfg.Cache.Enabled {
		kvStore, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Password: cfg.Cache.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer kvStore.Close()

		if err := kvStore.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to cache")

		reviewCache = reviewcache.New(
			kvStore,
			time.Duration(cfg.Cache.TTLHours)*time.Hour,
			metrics.ReviewCacheTotal,
			logger,
		)
		cachePinger = kvStore
	}

	// Understanding provider — used for extraction, review digests and
	// narrative synthesis.
	understander := openaiTransport.NewUnderstander(&openaiTransport.Config{
		APIKey:   cfg.Understanding.APIKey,
		BaseURL:  cfg.Understanding.BaseURL,
		Model:    cfg.Understanding.Model,
		Provider: cfg.Understanding.Provider,
		Logger:   logger,
	})
	logger.Info("Understanding provider created",
		zap.String("provider", cfg.Understanding.Provider),
		zap.String("model", cfg.Understanding.Model),
	)

	understandTimeout := time.Duration(cfg.Understanding.TimeoutSec) * time.Second

	// Use case services
	interpretSvc := interpretuc.New(understander, catalogStore, understandTimeout, logger)
	weights := rank.Weights{
		FeatureOverlap:  cfg.Ranking.Weights.FeatureOverlap,
		BrandMatch:      cfg.Ranking.Weights.Brand,
		Rating:          cfg.Ranking.Weights.Rating,
		TypeMatch:       cfg.Ranking.Weights.TypeMatch,
		BudgetProximity: cfg.Ranking.Weights.BudgetProximity,
	}
	rankingSvc := rankinguc.New(
		catalogStore,
		weights,
		cfg.Ranking.TopK,
		cfg.Ranking.MoreOptions,
		cfg.Ranking.RelaxationOrder,
	)
	reviewSvc := reviewuc.New(understander, reviewCache, understandTimeout, logger)
	dealSvc := dealuc.New(cfg.Deals.MinSavingsPct)
	pipelineSvc := pipelineuc.New(
		interpretSvc, rankingSvc, reviewSvc, dealSvc,
		catalogStore, understander, understandTimeout, logger,
	)

	healthSvc := healthuc.New(catalogStore, understander, cachePinger)

	// Create chi server
	server := chiTransport.NewServer(pipelineSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.RegisterRoutes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:        addr,
		Handler:     r,
		ReadTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		// WriteTimeout covers the whole SSE stream, not a single write.
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
