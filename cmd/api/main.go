package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"devspectrum/internal/app"
	"devspectrum/internal/config"
	apihttp "devspectrum/internal/http"
	"devspectrum/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	container, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("startup", zap.Error(err))
	}

	limiter := service.NewExportRateLimiter(cfg.ExportRateWindow(), cfg.ExportRateMax)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory export limiter", zap.Error(err))
		} else {
			limiter = service.NewRedisExportRateLimiter(redisClient, cfg.ExportRateWindow(), cfg.ExportRateMax)
		}
		cancel()
	}

	quizHandler := apihttp.NewQuizHandler(logger, container.Reports, limiter)
	router := apihttp.NewRouter(logger, quizHandler, cfg.CORSOrigins)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
