package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ArowuTest/pointhub-backend/api/routes"
	"github.com/ArowuTest/pointhub-backend/internal/config"
	"github.com/ArowuTest/pointhub-backend/internal/handlers"
	"github.com/ArowuTest/pointhub-backend/internal/repositories"
	mongorepo "github.com/ArowuTest/pointhub-backend/internal/repositories/mongodb"
	"github.com/ArowuTest/pointhub-backend/internal/services"
	"github.com/ArowuTest/pointhub-backend/pkg/jwt"
	mongodb "github.com/ArowuTest/pointhub-backend/pkg/mongodb"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)})))
	if strings.EqualFold(cfg.LogLevel, "debug") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	tokens, err := jwt.NewTokenService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiresIn)*time.Second)
	if err != nil {
		slog.Error("JWT_SECRET is not configured", "error", err)
		os.Exit(1)
	}

	mongoClient, err := mongodb.NewClient(cfg.MongoDB.URI, cfg.MongoDB.Timeout)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(ctx); err != nil {
			slog.Error("Error disconnecting from MongoDB", "error", err)
		}
	}()
	db := mongoClient.Database(cfg.MongoDB.Database)

	indexCtx, cancel := context.WithTimeout(context.Background(), cfg.MongoDB.Timeout)
	if err := mongorepo.EnsureIndexes(indexCtx, db); err != nil {
		cancel()
		slog.Error("Failed to create indexes", "error", err)
		os.Exit(1)
	}
	cancel()

	var userRepo repositories.UserRepository = mongorepo.NewUserRepository(db)
	var videoRepo repositories.VideoRepository = mongorepo.NewVideoRepository(db)
	var codeRepo repositories.SubscriptionCodeRepository = mongorepo.NewSubscriptionCodeRepository(db)
	var journalRepo repositories.PointTransactionRepository = mongorepo.NewPointTransactionRepository(db)
	var transferRepo repositories.TransferRepository = mongorepo.NewTransferRepository(db)

	policy, err := services.NewEligibilityPolicy(cfg.Reward)
	if err != nil {
		slog.Error("Invalid reward policy", "error", err)
		os.Exit(1)
	}
	cascade := services.NewReferralCascade(userRepo, journalRepo, cfg.Referral.Rates)

	rewardService := services.NewRewardService(userRepo, videoRepo, journalRepo, policy, cascade, cfg.Reward.MinimumBalance)
	transferService := services.NewTransferService(userRepo, transferRepo, journalRepo, cfg.Transfer.StuckAfter)
	subscriptionService := services.NewSubscriptionService(userRepo, codeRepo, cfg.Subscription.MinimumPoints, cfg.Subscription.CodeLength)
	pointService := services.NewPointService(userRepo, journalRepo)
	videoService := services.NewVideoService(videoRepo)

	handlerDeps := routes.HandlerDependencies{
		RewardHandler:       handlers.NewRewardHandler(rewardService),
		TransferHandler:     handlers.NewTransferHandler(transferService),
		SubscriptionHandler: handlers.NewSubscriptionHandler(subscriptionService),
		PointHandler:        handlers.NewPointHandler(pointService),
		VideoHandler:        handlers.NewVideoHandler(videoService),
		Tokens:              tokens,
	}
	router := routes.SetupRouter(cfg, handlerDeps)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.Server.Port, "rewardPolicy", policy.Name())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	slog.Info("Server exiting")
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
