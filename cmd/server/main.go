// file: cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"speakerhub/internal/cache"
	"speakerhub/internal/config"
	"speakerhub/internal/database"
	"speakerhub/internal/events"
	"speakerhub/internal/handlers/web"
	"speakerhub/internal/router"
	"speakerhub/internal/services"

	"go.uber.org/zap"
)

const sessionReapInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting SpeakerHub",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
	)

	db, err := database.NewManager(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(cfg.Database.MigrationsPath); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	logger.Info("Database ready")

	cacheClient, err := cache.New(&cache.Config{
		RedisURL:   cfg.Redis.URL,
		RedisDB:    cfg.Redis.DB,
		Password:   cfg.Redis.Password,
		PoolSize:   cfg.Redis.PoolSize,
		DefaultTTL: cfg.Redis.DefaultTTL,
	}, logger)
	if err != nil {
		logger.Warn("Redis unavailable, using in-memory cache", zap.Error(err))
		cacheClient = cache.NewMemoryCache()
	}
	defer cacheClient.Close()

	bus := events.NewBus(logger)

	sc, err := services.NewCollection(cfg, db, cacheClient, bus, logger)
	if err != nil {
		logger.Fatal("Failed to build services", zap.Error(err))
	}

	hub := web.NewNotificationHub(bus, logger)
	handler := router.New(sc, hub, logger)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go reapSessions(rootCtx, sc, logger)

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
	sc.Shutdown(shutdownCtx)

	logger.Info("Stopped")
}

// reapSessions sweeps expired sessions on a fixed interval.
func reapSessions(ctx context.Context, sc *services.Collection, logger *zap.Logger) {
	ticker := time.NewTicker(sessionReapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reapCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			if _, err := sc.AuthService.ReapExpiredSessions(reapCtx); err != nil {
				logger.Warn("Session reap failed", zap.Error(err))
			}
			cancel()
		}
	}
}

// initLogger builds the structured logger for the environment.
func initLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Logging.Level)
	if err == nil {
		zapCfg.Level = level
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}
