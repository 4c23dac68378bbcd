package main

import (
	"log"
	"net/http"
	"time"

	"github.com/IaraKrasnoff/OnesToManys/internal/cache"
	"github.com/IaraKrasnoff/OnesToManys/internal/config"
	"github.com/IaraKrasnoff/OnesToManys/internal/database"
	"github.com/IaraKrasnoff/OnesToManys/internal/handlers"
	"github.com/IaraKrasnoff/OnesToManys/internal/httpx"
	"github.com/IaraKrasnoff/OnesToManys/internal/repository"
	"github.com/IaraKrasnoff/OnesToManys/internal/services"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize the stats cache when Redis is configured. The app runs
	// fine without it: a nil client is a no-op cache.
	var statsCache *cache.Client
	if cfg.RedisURL != "" {
		statsCache, err = cache.Initialize(cfg.RedisURL, time.Duration(cfg.CacheTTL)*time.Second)
		if err != nil {
			log.Printf("Warning: stats cache disabled: %v", err)
			statsCache = nil
		}
	}

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)

	// Initialize services
	orderService := services.NewOrderService(orderRepo, orderItemRepo, statsCache)
	transferService := services.NewTransferService(orderRepo, orderItemRepo, orderService, cfg.DBDriver, cfg.DBSource)
	reportService := services.NewReportService(orderRepo, orderItemRepo, statsCache)

	// Initialize handlers
	orderHandler := handlers.NewOrderHandler(orderService)
	transferHandler := handlers.NewTransferHandler(transferService)
	reportHandler := handlers.NewReportHandler(reportService)

	// Setup routes
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.Use(httpx.RequestID())
	router.Use(httpx.Logger())

	router.GET("/", reportHandler.Welcome)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// Orders
	router.POST("/orders", orderHandler.CreateOrder)
	router.POST("/orders/with-items", orderHandler.CreateOrderWithItems)
	router.GET("/orders", orderHandler.GetAllOrders)
	router.GET("/orders/:id", orderHandler.GetOrder)
	router.PUT("/orders/:id", orderHandler.UpdateOrder)
	router.DELETE("/orders/:id", orderHandler.DeleteOrder)

	// Items within an order
	router.GET("/orders/:id/items", orderHandler.GetOrderItems)
	router.POST("/orders/:id/items", orderHandler.AddItemToOrder)
	router.PUT("/orders/:id/items/:item_id", orderHandler.UpdateOrderItem)
	router.DELETE("/orders/:id/items/:item_id", orderHandler.DeleteOrderItem)
	router.GET("/order-items", orderHandler.GetAllOrderItems)

	// Reporting
	router.GET("/orders/:id/summary", reportHandler.GetOrderSummary)
	router.GET("/stats", reportHandler.GetStats)

	// Bulk transfer
	router.GET("/export/orders/json", transferHandler.ExportJSON)
	router.GET("/export/orders/sql", transferHandler.ExportSQL)
	router.POST("/import/orders/json", transferHandler.ImportJSON)

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
