package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"souq-delivery-api/config"
	"souq-delivery-api/handlers"
	"souq-delivery-api/middleware"
	"souq-delivery-api/routes"
	"souq-delivery-api/state"
	"souq-delivery-api/storage"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	kv, err := openStorage(cfg)
	if err != nil {
		log.Fatal("Failed to open storage backend:", err)
	}

	// Build the state owners: auth, catalog, orders, currency. The order
	// service resolves vendor ownership through the catalog.
	authSvc := state.NewAuthService(kv)
	catalogSvc := state.NewCatalogService(kv)
	orderSvc := state.NewOrderService(kv, catalogSvc)
	currencySvc := state.NewCurrencyService(kv)

	tokens := middleware.NewAuth(cfg.JWTSecret)
	h := handlers.New(authSvc, catalogSvc, orderSvc, currencySvc, tokens)

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Souq Delivery API",
			"version": "1.0.0",
		})
	})

	// Welcome
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the Souq Delivery API",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"roles":   []string{"customer", "vendor", "driver", "admin", "staff"},
		})
	})

	// Register all routes
	routes.SetupRoutes(r, h)

	log.Printf("Server running on http://localhost:%s (storage: %s)", cfg.Port, cfg.StorageBackend)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// openStorage selects the KV backend from configuration.
func openStorage(cfg config.Config) (storage.KV, error) {
	switch cfg.StorageBackend {
	case "redis":
		return storage.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), nil
	case "memory":
		return storage.NewMemory(), nil
	default:
		return storage.OpenSQLite(cfg.SQLitePath)
	}
}
