package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedback-bot/internal/config"
	"feedback-bot/internal/db"
	apihttp "feedback-bot/internal/http"
	"feedback-bot/internal/service"

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

	feedbackRepo, closeStore, err := db.OpenFeedbackStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("feedback store", zap.Error(err))
	}
	defer closeStore()

	submitLimiter := service.NewSubmissionRateLimiter(cfg.SubmitRateWindow(), cfg.SubmitRateLimit)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed, using in-memory rate limiter", zap.Error(err))
		} else {
			submitLimiter = service.NewRedisSubmissionRateLimiter(redisClient, logger, cfg.SubmitRateWindow(), cfg.SubmitRateLimit)
		}
		cancel()
	}

	var jwtSvc *service.JWTService
	if cfg.JWTSecret != "" {
		jwtSvc = service.NewJWTService(cfg.JWTSecret, cfg.JWTAccessTTL())
	} else {
		logger.Warn("jwt secret not configured, read endpoints are public")
	}

	classifier := service.NewSentimentClassifier(service.NewVaderScorer())
	feedbackSvc := service.NewFeedbackService(logger, feedbackRepo, classifier, submitLimiter)
	analyticsSvc := service.NewAnalyticsService(logger, feedbackRepo)

	feedbackHandler := apihttp.NewFeedbackHandler(logger, feedbackSvc)
	analyticsHandler := apihttp.NewAnalyticsHandler(logger, analyticsSvc)
	router := apihttp.NewRouter(logger, feedbackHandler, analyticsHandler, jwtSvc)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
