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

	"github.com/puviyarasu12/Stream-backend/internal/config"
	"github.com/puviyarasu12/Stream-backend/internal/routes"
	"github.com/puviyarasu12/Stream-backend/internal/services"
	"github.com/puviyarasu12/Stream-backend/internal/websocket"
	"github.com/puviyarasu12/Stream-backend/pkg/database"
	"github.com/puviyarasu12/Stream-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize logger
	logger.Init()
	defer logger.Close()

	// Load configuration
	cfg := config.Load()
	cfg.ApplyEnvironmentOverrides()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration: " + err.Error())
	}

	// Initialize database
	if err := database.InitMongoDB(cfg.Database.MongoDB); err != nil {
		logger.Fatal("Failed to connect to MongoDB: " + err.Error())
	}
	defer database.Disconnect()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize the relay hub
	roomService := services.NewRoomService(database.GetDatabase())
	hub := websocket.NewHub(roomService)

	if cfg.Relay.Backbone == config.RelayBackboneRedis {
		backbone, err := websocket.NewBackbone(cfg.Database.Redis, cfg.Relay.Channel, hub.InstanceID())
		if err != nil {
			logger.Fatal("Failed to connect relay backbone: " + err.Error())
		}
		defer backbone.Close()
		hub.AttachBackbone(backbone)
		go backbone.Run(ctx, hub)
	}

	go hub.Run()

	// Initialize Gin router
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// Setup routes
	routes.SetupRoutes(router, cfg, hub)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}

	server := &http.Server{
		Addr:         cfg.Server.HTTP.Host + ":" + port,
		Handler:      router,
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
		IdleTimeout:  cfg.Server.HTTP.IdleTimeout,
	}

	go func() {
		logger.Info("Server starting on port: " + port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: " + err.Error())
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.LogError(err, "Server shutdown failed", nil)
	}
}
