package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"portfolio/internal/config"
	"portfolio/internal/mail"
	"portfolio/internal/metrics"
	"portfolio/internal/notify"
	"portfolio/internal/tasks"
	"portfolio/internal/worker"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	redisAddr := cfg.Redis.Addr()
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	if cfg.SMTP.OwnerEmail == "" {
		log.Printf("CONTACT_OWNER_EMAIL is empty; owner notifications will be skipped")
	}

	server := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{
		Concurrency: 5,
	})

	emailHandler := worker.NewEmailTaskHandler(
		mail.NewSMTPSender(cfg.SMTP),
		notify.NewRedisPublisher(redisClient),
		logger,
		cfg.SMTP.From,
		mail.Owner{Name: cfg.SMTP.OwnerName, Email: cfg.SMTP.OwnerEmail},
	)

	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMetricsMiddleware())
	mux.Handle(tasks.TypeContactNotify, emailHandler)
	mux.Handle(tasks.TypeContactAutoReply, emailHandler)

	// worker 没有 HTTP 路由，单独暴露 /metrics 供抓取。
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Worker.MetricsPort),
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("worker metrics server stopped", slog.Any("error", err))
		}
	}()

	logger.Info("worker service started", slog.String("redis_addr", redisAddr))
	if err := server.Run(mux); err != nil {
		logger.Error("worker server stopped", slog.Any("error", err))
	}
}
