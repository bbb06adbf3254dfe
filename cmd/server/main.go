package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	assetapp "github.com/storefront/backend/internal/application/asset"
	cartapp "github.com/storefront/backend/internal/application/cart"
	"github.com/storefront/backend/internal/application/datamanager"
	syncapp "github.com/storefront/backend/internal/application/sync"
	"github.com/storefront/backend/internal/domain/asset"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("storage_platform", string(cfg.Storage.Platform)),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Redis is optional; the toggle cache degrades to the database when
	// it is unreachable.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	{
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("Redis unreachable, toggle cache disabled", zap.Error(err))
			redisClient = nil
		}
		cancel()
	}

	// Storage backends. Local is always available; cloud joins the map
	// when credentials are configured, so assets uploaded under a
	// previous platform remain deletable after a switch.
	stores := map[asset.Platform]assetapp.BlobStorage{}
	localStore, err := storage.NewLocalBlobStorage(cfg.Storage.LocalDir, cfg.Storage.LocalBaseURL, log)
	if err != nil {
		log.Fatal("Failed to initialize local storage", zap.Error(err))
	}
	stores[asset.PlatformLocal] = localStore
	if cfg.Storage.AccessKey != "" && cfg.Storage.SecretKey != "" {
		cloudStore, err := storage.NewS3BlobStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize cloud storage", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := cloudStore.EnsureBucket(ctx); err != nil {
			log.Warn("Could not ensure storage bucket", zap.Error(err))
		}
		cancel()
		stores[asset.PlatformCloud] = cloudStore
	}
	if _, ok := stores[cfg.Storage.Platform]; !ok {
		log.Fatal("Resolved storage platform has no configured backend",
			zap.String("platform", string(cfg.Storage.Platform)))
	}

	// Repositories
	sessionRepo := persistence.NewGormCartSessionRepository(db.DB)
	recoveryRepo := persistence.NewGormCartRecoveryRepository(db.DB)
	eventRepo := persistence.NewGormCartEventRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)

	// Application services
	assetService := assetapp.NewService(stores, cfg.Storage.Platform, log)
	toggleCache := cache.NewToggleCache(redisClient, settingsRepo, cfg.Cart.ToggleCacheTTL, log)
	trackingService := cartapp.NewTrackingService(sessionRepo, eventRepo, log)
	sweepService := cartapp.NewSweepService(sessionRepo, cfg.Cart.StalenessThreshold, log)
	recoveryService := cartapp.NewRecoveryService(sessionRepo, recoveryRepo, eventRepo, cfg.Cart.RecentRecoveries, log)
	abandonmentService := cartapp.NewAbandonmentService(sessionRepo, eventRepo, sweepService, toggleCache, log)
	fileService := datamanager.NewFileService(stores, cfg.Storage.Platform, persistence.NewGormSnapshotSource(db.DB), log)
	autoUpdateService := syncapp.NewAutoUpdateService(
		persistence.NewGormMaintenanceRefresher(db.DB, cfg.Cart.StalenessThreshold),
		persistence.NewGormSyncRunRecorder(db.DB),
		persistence.MaintenanceTables(),
		cfg.Sync.StaleAfter,
		log,
	)

	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Locally stored assets are served straight from disk
	engine.Static(cfg.Storage.LocalBaseURL, localStore.Root())

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithGuard(middleware.AdminAuth(jwtService, log)),
	)
	r.Register(handler.NewSystemHandler(db))
	r.Register(handler.NewAnalyticsHandler(abandonmentService, recoveryService))
	r.Register(handler.NewCartHandler(trackingService, recoveryService))
	r.RegisterProtected(handler.NewUploadHandler(assetService, log))
	r.RegisterProtected(handler.NewDataManagerHandler(fileService, autoUpdateService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
