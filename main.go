package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/hugofmello/startup-pitch/config"
	"github.com/hugofmello/startup-pitch/handler"
	"github.com/hugofmello/startup-pitch/middleware"
	"github.com/hugofmello/startup-pitch/pkg/logger"
	"github.com/hugofmello/startup-pitch/service"
)

func main() {
	// Load .env if present, then the config file
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	ctx := context.Background()

	// Initialize the blob store gateway
	minioSvc, err := service.NewMinioService(&cfg.Minio)
	if err != nil {
		slog.Error("failed to initialize MINIO service", "error", err)
		os.Exit(1)
	}
	if err := minioSvc.EnsureBucket(ctx); err != nil {
		slog.Error("failed to ensure MINIO bucket", "error", err)
		os.Exit(1)
	}

	// Initialize the task and startup tables
	dynamoClient, err := service.NewDynamoClient(ctx, &cfg.Dynamo)
	if err != nil {
		slog.Error("failed to initialize DynamoDB client", "error", err)
		os.Exit(1)
	}
	taskStore := service.NewDynamoTaskStore(dynamoClient, cfg.Dynamo.TasksTable)
	startupStore := service.NewDynamoStartupStore(dynamoClient, cfg.Dynamo.StartupsTable)

	// Initialize the result cache
	resultStore, err := service.NewRedisResultStore(ctx, &cfg.Redis)
	if err != nil {
		slog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}

	// Extraction client and the two core services
	extractionClient := service.NewExtractionClient(&cfg.Extraction)
	submitSvc := service.NewSubmitService(&cfg.Extraction, minioSvc, extractionClient, taskStore)
	querySvc := service.NewQueryService(taskStore, resultStore, extractionClient)

	// Initialize handlers
	taskHandler := handler.NewTaskHandler(submitSvc, querySvc)
	startupHandler := handler.NewStartupHandler(startupStore)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(middleware.RequestID())                 // Request ID for tracing
	router.Use(middleware.Recovery())                  // Panic recovery
	router.Use(middleware.RequestLogger())             // Access logging
	router.Use(corsMiddleware())                       // CORS
	router.Use(middleware.RateLimit(100, time.Minute)) // Rate limiting: 100 requests per minute

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	router.POST("/upload", taskHandler.Upload)
	router.GET("/tasks", taskHandler.List)
	router.GET("/tasks/:taskId", taskHandler.Get)
	router.POST("/tasks/:taskId/consume", taskHandler.Consume)

	router.POST("/startups", startupHandler.Create)
	router.GET("/startups", startupHandler.List)
	router.GET("/startups/:id", startupHandler.Get)
	router.PUT("/startups/:id", startupHandler.Update)
	router.DELETE("/startups/:id", startupHandler.Delete)

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
