package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"maintenance-backend/config"
	"maintenance-backend/internal/alert"
	"maintenance-backend/internal/api"
	"maintenance-backend/internal/db"
	"maintenance-backend/internal/ingest"
	"maintenance-backend/internal/logger"
	"maintenance-backend/internal/notification"
	"maintenance-backend/internal/store"
)

func main() {
	// A missing .env is fine; the environment may be set by the process manager.
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	zlog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format, "maintenanced")
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()
	zlog.Info("configuration loaded", zap.String("path", configPath))

	gormDB, err := db.Init(&cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("failed to initialize database", zap.Error(err))
	}
	appStore := store.NewGormStore(gormDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var sinks alert.Fanout
	var webpushOptions *webpush.Options
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, webpushOptions, zlog)
		pool.Start(ctx)
		sinks = append(sinks, pool)
	} else {
		zlog.Warn("VAPID keys not configured, push notifications disabled")
	}

	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			zlog.Warn("redis unreachable, alerts will not be streamed until it recovers", zap.Error(err))
		}
		sinks = append(sinks, alert.NewStreamSink(redisClient, cfg.Redis.AlertStream, cfg.Redis.StreamMaxLen))
		zlog.Info("streaming alerts to redis", zap.String("stream", cfg.Redis.AlertStream))
	}

	if cfg.Ingest.Enabled {
		client, err := ingest.Dial(&cfg.Ingest)
		if err != nil {
			zlog.Fatal("failed to connect to MQTT broker", zap.String("broker", cfg.Ingest.Broker), zap.Error(err))
		}
		svc := ingest.NewService(&cfg.Ingest, appStore, sinks, client, zlog)
		go func() {
			if err := svc.Run(ctx); err != nil {
				zlog.Error("ingest stopped", zap.Error(err))
			}
		}()
	}

	handler := api.NewHandler(appStore, webpushOptions, sinks, cfg.Reports.Months, zlog)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewRouter(handler, cfg.Server, zlog),
	}

	go func() {
		zlog.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("HTTP server ListenAndServe", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	zlog.Info("shutdown signal received, stopping services")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Fatal("HTTP server Shutdown", zap.Error(err))
	}

	zlog.Info("server gracefully stopped")
}
