package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aurum-core/internal/adapter/api"
	"aurum-core/internal/adapter/client"
	"aurum-core/internal/adapter/store"
	"aurum-core/internal/config"
	"aurum-core/internal/domain/repository"
	"aurum-core/internal/pkg/logger"
	"aurum-core/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	zl := logger.New(cfg.App.LogFilePath, cfg.IsProduction())
	defer zl.Sync()

	// Redis for chat sessions and the gold portfolio
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		zl.Warn("MAIN", "redis not reachable, chat history and purchases will fail", map[string]interface{}{"error": err})
	}

	// A nil provider switches both services to fallback output.
	var provider repository.AIProvider
	if cfg.Gemini.APIKey != "" {
		genaiClient, err := client.NewGenAIClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Timeout)
		if err != nil {
			log.Fatalf("failed to init genai client: %v", err)
		}
		primaryModel := client.NewGeminiClientFromClient(genaiClient, cfg.Gemini.PrimaryModel)
		fallbackModel := client.NewGeminiClientFromClient(genaiClient, cfg.Gemini.FallbackModel)
		provider = usecase.NewResilientProvider(primaryModel, fallbackModel, zl, cfg.Gemini.Timeout)
	} else {
		zl.Warn("MAIN", "GEMINI_API_KEY not set, serving fallback replies and simulated prices", nil)
	}

	priceQueue := usecase.NewThrottleQueue("price", cfg.Throttle.PriceMinInterval, zl)
	chatQueue := usecase.NewThrottleQueue("chat", cfg.Throttle.ChatMinInterval, zl)

	prices := usecase.NewPriceEstimator(provider, priceQueue, zl, usecase.PriceEstimatorConfig{
		CacheTTL:   cfg.Throttle.PriceCacheTTL,
		AIInterval: cfg.Throttle.PriceAIInterval,
	})
	replyCache := store.NewReplyCache(cfg.Throttle.ChatCacheTTL, cfg.Throttle.ChatCacheSize)
	orchestrator := usecase.NewChatOrchestrator(provider, chatQueue, replyCache, prices, zl, cfg.Throttle.ChatMinInterval)

	gateway := client.NewMidtransGateway(cfg.Midtrans.ServerKey, cfg.Midtrans.IsProduction, cfg.Midtrans.FrontendURL)
	purchases := usecase.NewPurchaseService(prices, store.NewRedisPortfolioStore(rdb), gateway, zl)

	sessions := store.NewRedisSessionStore(rdb, 50, 24*time.Hour)

	app := fiber.New(fiber.Config{
		AppName: "Aurum Gold Assistant",
	})
	api.SetupRouter(app, api.Handlers{
		Chat:     api.NewChatHandler(orchestrator, prices, sessions, zl),
		Price:    api.NewPriceHandler(prices),
		Purchase: api.NewPurchaseHandler(purchases),
	}, api.RouterConfig{
		JWTSecret:   cfg.Auth.JWTSecret,
		Version:     cfg.App.Version,
		Environment: cfg.App.Environment,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		zl.Info("MAIN", "shutting down", nil)
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			zl.Error("MAIN", "shutdown failed", map[string]interface{}{"error": err})
		}
		rdb.Close()
	}()

	zl.Info("MAIN", "gold assistant running", map[string]interface{}{"port": cfg.App.Port, "model": provider != nil})
	if err := app.Listen(":" + cfg.App.Port); err != nil {
		log.Fatal(err)
	}
}
