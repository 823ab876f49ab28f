package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"equity-insights/internal/api/config"
	delivery "equity-insights/internal/api/delivery/http"
	"equity-insights/internal/api/repository"
	"equity-insights/internal/api/service"
	"equity-insights/pkg/common"
	"equity-insights/pkg/logger"
	"equity-insights/pkg/postgres"
	"equity-insights/pkg/redis"
	"equity-insights/pkg/respcache"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the API service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting API Service", logger.Field("name", cfg.App.Name))

	// Shared upstream response cache
	responseCache := respcache.New()

	// Initialize repositories
	avRepo := repository.NewAlphaVantageRepository(cfg, responseCache, appLogger)
	finnhubRepo := repository.NewFinnhubRepository(cfg, responseCache, appLogger)
	macroRepo := repository.NewMacroCalendarRepository(cfg.MacroCalendar.Path, appLogger)

	watchlistRepo, cleanup, err := buildWatchlistRepository(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize watchlist storage", logger.ErrorField(err))
	}
	defer cleanup()

	// Initialize services
	quoteSvc := service.NewQuoteService(avRepo, appLogger)
	newsSvc := service.NewNewsService(finnhubRepo, appLogger)
	watchlistSvc := service.NewWatchlistService(watchlistRepo, finnhubRepo, appLogger)
	catalystsSvc := service.NewCatalystsService(finnhubRepo, macroRepo, watchlistSvc, appLogger)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(delivery.IdentityMiddleware(cfg.Auth.LocalDevUserID))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	stockHandler := delivery.NewStockHandler(quoteSvc, appLogger)
	stockHandler.RegisterRoutes(apiV1)

	newsHandler := delivery.NewNewsHandler(newsSvc, watchlistSvc, appLogger)
	newsHandler.RegisterRoutes(apiV1)

	watchlistsGroup := apiV1.Group("/watchlists")
	watchlistHandler := delivery.NewWatchlistHandler(watchlistSvc, appLogger)
	watchlistHandler.RegisterRoutes(watchlistsGroup)
	newsHandler.RegisterWatchlistRoutes(watchlistsGroup)

	catalystsHandler := delivery.NewCatalystsHandler(catalystsSvc, appLogger)
	catalystsHandler.RegisterRoutes(apiV1)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// buildWatchlistRepository selects the storage backend from config and
// connects only the one that is needed.
func buildWatchlistRepository(cfg *config.Config, appLogger *logger.Logger) (repository.WatchlistRepository, func(), error) {
	noop := func() {}

	switch cfg.Storage.Driver {
	case common.StorageDriverPostgres:
		db, err := postgres.NewDB(postgres.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			DBName:          cfg.Database.DBName,
			SSLMode:         cfg.Database.SSLMode,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			return nil, noop, err
		}
		cleanup := func() {
			if sqlDB, err := db.DB.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repository.NewPostgresWatchlistRepository(db.DB), cleanup, nil

	case common.StorageDriverRedis:
		client, err := redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return nil, noop, err
		}
		return repository.NewRedisWatchlistRepository(client.Client), func() { _ = client.Close() }, nil

	case common.StorageDriverFile, "":
		path := cfg.Storage.FilePath
		if path == "" {
			path = ".localdata/watchlists.json"
		}
		appLogger.Info("Using file watchlist storage", logger.StringField("path", path))
		return repository.NewFileWatchlistRepository(path), noop, nil

	default:
		return nil, noop, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func main() {
	rootCmd := &cobra.Command{Use: "api-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing api-service CLI: %s\n", err)
		os.Exit(1)
	}
}
