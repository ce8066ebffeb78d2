package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ifat-github/casting-agency/internal/application"
	"github.com/ifat-github/casting-agency/internal/infrastructure/config"
	"github.com/ifat-github/casting-agency/internal/infrastructure/database"
	"github.com/ifat-github/casting-agency/internal/infrastructure/jwks"
	"github.com/ifat-github/casting-agency/internal/infrastructure/jwt"
	httprouter "github.com/ifat-github/casting-agency/internal/interfaces/http"
	"go.uber.org/zap"
)

// @title Casting Agency API
// @version 1.0
// @description Actors and movies records guarded by RS256 bearer tokens
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig(logger)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	ctx := context.Background()

	// Create database connection
	db, err := database.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(cfg, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Token verification
	keyProvider, releaseKeys, err := jwks.NewKeyProvider(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize key provider", zap.Error(err))
	}
	defer releaseKeys()

	verifier := jwt.NewVerifier(keyProvider, logger)
	gate := application.NewAuthorizationService(verifier, cfg.AuthIssuer, cfg.AuthAudience, logger)

	router := httprouter.NewRouter(db, gate, cfg, logger)
	defer router.Close()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Starting server", zap.Int("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited properly")
}
