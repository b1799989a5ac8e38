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

	"food-ordering-api/config"
	"food-ordering-api/handlers"
	"food-ordering-api/payment"
	"food-ordering-api/routes"
	"food-ordering-api/service"
	"food-ordering-api/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	gin.SetMode(cfg.GinMode)

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}
	if cfg.SeedData {
		if err := store.Seed(context.Background()); err != nil {
			log.Fatal("Failed to seed database:", err)
		}
	}

	gateway := payment.NewRazorpayGateway(cfg.RazorpayBaseURL, cfg.RazorpayKeyID,
		cfg.RazorpayKeySecret, cfg.RazorpayTimeout)
	orders := service.NewOrderService(store, gateway, cfg.TaxRateBasisPoints)
	h := handlers.New(cfg, store, orders)

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, Idempotency-Key")
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
			"service": "Food Ordering API",
			"version": "1.0.0",
		})
	})

	routes.SetupRoutes(r, h, []byte(cfg.JWTSecret))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("Forced shutdown:", err)
	}
	if err := store.Close(); err != nil {
		log.Println("Failed to close store:", err)
	}
}
