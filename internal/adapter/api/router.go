package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Chat     *ChatHandler
	Price    *PriceHandler
	Purchase *PurchaseHandler
}

type RouterConfig struct {
	JWTSecret   string
	Version     string
	Environment string
}

func SetupRouter(app *fiber.App, h Handlers, cfg RouterConfig) {
	// Middleware
	app.Use(logger.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "healthy",
			"version": cfg.Version,
			"env":     cfg.Environment,
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	api.Post("/chat", OptionalAuth(cfg.JWTSecret), h.Chat.HandleChat)

	gold := api.Group("/gold")
	gold.Get("/price", h.Price.GetPrice)
	gold.Post("/price/refresh", h.Price.RefreshPrice)
	gold.Get("/history", h.Price.GetHistory)
	gold.Post("/buy", RequireAuth(cfg.JWTSecret), h.Purchase.BuyGold)

	api.Get("/portfolio", RequireAuth(cfg.JWTSecret), h.Purchase.GetPortfolio)
	api.Post("/payment/notification", h.Purchase.HandleNotification)
}
