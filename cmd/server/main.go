// Package main is the entry point for the thumbnail service.
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
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/thumbgrab/thumbnail-service-go/internal/config"
	"github.com/thumbgrab/thumbnail-service-go/internal/gateway"
	"github.com/thumbgrab/thumbnail-service-go/internal/handler"
	"github.com/thumbgrab/thumbnail-service-go/internal/ingest"
	"github.com/thumbgrab/thumbnail-service-go/internal/middleware"
	"github.com/thumbgrab/thumbnail-service-go/internal/quota"
	"github.com/thumbgrab/thumbnail-service-go/internal/service"
	"github.com/thumbgrab/thumbnail-service-go/internal/youtube"
	"github.com/thumbgrab/thumbnail-service-go/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	pool, err := initDatabase(ctx, &cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	if err := gateway.EnsureSchema(ctx, pool); err != nil {
		logger.Log.Fatal("Failed to apply database schema", zap.Error(err))
	}

	gw := gateway.NewPostgres(pool)

	// RabbitMQ is optional; without a host, events are dropped.
	var publisher *service.EventPublisher
	if cfg.RabbitMQ.Host != "" {
		publisher, err = service.NewEventPublisher(&cfg.RabbitMQ)
		if err != nil {
			logger.Log.Warn("Failed to connect to RabbitMQ, download events will not be published",
				zap.Error(err),
			)
		} else {
			defer func() { _ = publisher.Close() }()
		}
	}

	httpClient := &http.Client{Timeout: cfg.Fetch.Timeout}
	titles := youtube.NewTitleClient(cfg.Fetch.OEmbedBaseURL, httpClient)
	fetcher := service.NewFetcher(cfg.Fetch.CDNBaseURL, titles, httpClient)
	packager := service.NewPackager(fetcher, cfg.Fetch.BatchSize)
	counter := quota.NewCounter(&quota.MemoryStore{}, cfg.Quota.GuestDailyLimit, time.Now)
	ingester := ingest.New(cfg.Fetch.MaxCSVRows)

	thumbnailHandler := handler.NewThumbnailHandler(fetcher, packager, counter, gw, publisher)
	csvHandler := handler.NewCSVHandler(ingester)
	folderHandler := handler.NewFolderHandler(gw)
	historyHandler := handler.NewHistoryHandler(gw)
	healthHandler := handler.NewHealthHandler(gw, publisher)

	auth := middleware.NewAPIKeyAuth(cfg.Auth.APIKeys)
	if len(cfg.Auth.APIKeys) == 0 {
		logger.Log.Warn("No API keys configured, authenticated endpoints will reject all requests")
	}

	router := setupRouter(thumbnailHandler, csvHandler, folderHandler, historyHandler, healthHandler, auth)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Log.Info("Server starting", zap.Int("port", cfg.Server.Port))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Log.Fatal("Server error", zap.Error(err))
	case sig := <-shutdown:
		logger.Log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Graceful shutdown failed", zap.Error(err))
			if err := server.Close(); err != nil {
				logger.Log.Error("Failed to close server", zap.Error(err))
			}
			os.Exit(1)
		}

		logger.Log.Info("Server stopped gracefully")
	}
}

func setupRouter(
	thumbnails *handler.ThumbnailHandler,
	csvUploads *handler.CSVHandler,
	folders *handler.FolderHandler,
	history *handler.HistoryHandler,
	health *handler.HealthHandler,
	auth *middleware.APIKeyAuth,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health/live", health.LivenessProbe)
	router.GET("/health/ready", health.ReadinessProbe)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")

	// Public endpoints; a signed-in identity is picked up when present so
	// history recording and quota bypass apply.
	public := api.Group("", auth.OptionalUser())
	{
		public.POST("/thumbnails", thumbnails.Resolve)
		public.GET("/thumbnails/:videoId/image", thumbnails.DownloadImage)
		public.POST("/thumbnails/archive", thumbnails.BuildArchive)
		public.POST("/csv", csvUploads.Upload)
		public.GET("/quota", thumbnails.Quota)
	}

	authed := api.Group("", auth.RequireUser())
	{
		authed.POST("/thumbnails/:videoId/save", thumbnails.Save)

		authed.GET("/history", history.List)
		authed.DELETE("/history/:entryId", history.DeleteEntry)

		authed.GET("/folders", folders.List)
		authed.POST("/folders", folders.Create)
		authed.PATCH("/folders/:folderId", folders.Update)
		authed.DELETE("/folders/:folderId", folders.Delete)
		authed.GET("/folders/:folderId/videos", folders.ListVideos)
		authed.POST("/folders/:folderId/videos", folders.AddVideo)
		authed.DELETE("/folders/:folderId/videos/:videoEntryId", folders.RemoveVideo)
	}

	return router
}

// initDatabase initializes the database connection pool.
func initDatabase(ctx context.Context, cfg *config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnIdleTime = cfg.MaxIdleTime
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}
