package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"portfolio/internal/ai"
	"portfolio/internal/api"
	"portfolio/internal/auth"
	"portfolio/internal/config"
	"portfolio/internal/content"
	"portfolio/internal/database"
	"portfolio/internal/notify"
	"portfolio/internal/storage"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	gin.SetMode(gin.ReleaseMode)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	log.Printf("database connection ready")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("auto migrate: %v", err)
	}
	log.Printf("database migrated")

	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("init token service: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})
	defer asynqClient.Close()

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	log.Printf("storage client ready, bucket=%s", cfg.MinIO.Bucket)

	repo := content.NewRepository(db)
	chat := ai.NewChatService(ai.NewClient(cfg.AI), repo, cfg.AI.APIKey)

	deps := api.Deps{
		Logger:         logger,
		Tokens:         tokens,
		Users:          auth.NewUserStore(db),
		Content:        repo,
		Queue:          asynqClient,
		Notifier:       notify.NewRedisPublisher(redisClient),
		Storage:        storageClient,
		Chat:           chat,
		Redis:          redisClient,
		MaxImageBytes:  cfg.Upload.MaxImageBytes,
		AllowedOrigins: cfg.API.Origins(),
	}
	if cfg.Upload.ClamdAddr != "" {
		deps.Scanner = api.NewClamdScanner(cfg.Upload.ClamdAddr)
		log.Printf("upload virus scanning enabled via %s", cfg.Upload.ClamdAddr)
	}

	router := api.NewRouter(logger)
	api.RegisterRoutes(router, deps)

	address := fmt.Sprintf(":%d", cfg.API.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("api listening on %s", address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start api server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("api shutdown failed", slog.Any("error", err))
	}
	logger.Info("api stopped")
}
