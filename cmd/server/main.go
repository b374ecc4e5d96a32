package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"

	"github.com/jengzang/ecorisk-backend-go/internal/api"
	"github.com/jengzang/ecorisk-backend-go/internal/auth"
	"github.com/jengzang/ecorisk-backend-go/internal/config"
	"github.com/jengzang/ecorisk-backend-go/internal/database"
	"github.com/jengzang/ecorisk-backend-go/internal/geocoding"
	"github.com/jengzang/ecorisk-backend-go/internal/handler"
	"github.com/jengzang/ecorisk-backend-go/internal/middleware"
	"github.com/jengzang/ecorisk-backend-go/internal/observability"
	"github.com/jengzang/ecorisk-backend-go/internal/repository"
	"github.com/jengzang/ecorisk-backend-go/internal/risk"
	"github.com/jengzang/ecorisk-backend-go/internal/service"
	"github.com/jengzang/ecorisk-backend-go/internal/session"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	gin.SetMode(gin.ReleaseMode)

	// 初始化数据库
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		logger.Error("failed to create database directory", "error", err)
		os.Exit(1)
	}
	db, err := database.Open(database.Config{Path: cfg.DBPath}, logger)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db, logger); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	geocoder, closeGeocoder := newGeocoder(ctx, cfg, metrics, logger)
	defer closeGeocoder()

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Error("failed to create token manager", "error", err)
		os.Exit(1)
	}

	clock := clockwork.NewRealClock()
	sessionRepo := repository.NewSessionRepository(db)
	gridCfg := service.GridConfig{Box: risk.SaintPetersburg, CellSize: cfg.CellSize}
	gridRepo := repository.NewGridRepository(db, gridCfg.Layout())
	store := session.NewStore(sessionRepo, gridRepo, clock, cfg.SessionIdleTTL, metrics, logger)
	searchLimiter := middleware.NewRateLimiter(cfg.SearchRateLimit, time.Minute, clock)

	aggregator := risk.NewAggregator(risk.DefaultTypeWeights(), cfg.AggregateWorkers)

	// 初始化路由
	router := api.SetupRouter(api.Dependencies{
		Sessions:      handler.NewSessionHandler(service.NewSessionService(store, tokens)),
		Sources:       handler.NewSourceHandler(service.NewSourceService(store, sessionRepo, metrics, logger)),
		Geocoding:     handler.NewGeocodingHandler(service.NewGeocodingService(store, sessionRepo, geocoder, metrics, logger)),
		Grid:          handler.NewGridHandler(service.NewGridService(store, sessionRepo, gridRepo, aggregator, gridCfg, metrics, logger)),
		Tokens:        tokens,
		SearchLimiter: searchLimiter,
		Metrics:       metrics,
		Logger:        logger,
	})

	go store.Run(ctx)
	go searchLimiter.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器
	go func() {
		logger.Info("server starting", "addr", cfg.Port, "cell_size", cfg.CellSize, "workers", cfg.AggregateWorkers)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

// newGeocoder builds the Nominatim client behind an in-process LRU and, when
// REDIS_ADDR is set, a shared Redis cache.
func newGeocoder(ctx context.Context, cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) (geocoding.Geocoder, func()) {
	var geocoder geocoding.Geocoder = geocoding.NewClient(geocoding.NominatimConfig{
		BaseURL:    cfg.GeocoderURL,
		UserAgent:  cfg.GeocoderUserAgent,
		CitySuffix: cfg.GeocoderCitySuffix,
		Timeout:    cfg.GeocoderTimeout,
	}, metrics, logger)

	closeFn := func() {}
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			// The cache degrades to the inner geocoder on errors, so keep going
			logger.Warn("redis unreachable, geocode cache will retry per request", "addr", cfg.RedisAddr, "error", err)
		}
		geocoder = geocoding.NewRedisGeocoder(geocoder, client, cfg.GeocodeCacheTTL, metrics, logger)
		closeFn = func() { _ = client.Close() }
		logger.Info("redis geocode cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.GeocodeCacheTTL)
	}

	if cfg.GeocoderCacheSize > 0 {
		geocoder = geocoding.NewCachedGeocoder(geocoder, cfg.GeocoderCacheSize, metrics)
		logger.Info("geocode memory cache enabled", "size", cfg.GeocoderCacheSize)
	}

	return geocoder, closeFn
}
