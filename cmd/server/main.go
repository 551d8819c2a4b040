package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/treestream-io/treestream/internal/api"
	"github.com/treestream-io/treestream/internal/config"
	"github.com/treestream-io/treestream/internal/github"
	"github.com/treestream-io/treestream/internal/traverse"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	logger.SetOutput(os.Stdout)

	// Load configuration with defaults
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	// Validate minimum required config
	if cfg.GitHubToken == "" {
		logger.Fatal("Missing required configuration (GITHUB_TOKEN must be set)")
	}

	// Initialize GitHub client and the traversal pipeline
	client, err := github.NewClient(cfg.GitHubToken, logger,
		github.WithBaseURL(cfg.GitHubAPIURL),
		github.WithLimiter(rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)),
	)
	if err != nil {
		logger.Fatalf("Failed to initialize GitHub client: %v", err)
	}
	traverser := traverse.NewTraverser(client, logger, config.DefaultTraverseConfig())
	apiHandler := api.NewHandler(client, traverser, logger)

	// Setup router with middleware
	router := api.SetupRouter(apiHandler)
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(router)

	// Create HTTP server. WriteTimeout stays zero: a tree stream legitimately
	// outlives any fixed deadline.
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     corsHandler,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	logger.Info("Server exited properly")
}
