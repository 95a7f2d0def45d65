package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studygroup/config"
	"studygroup/pkg/logger"
	"studygroup/server"
	"studygroup/server/routes"
	"studygroup/services/chat"
	"studygroup/services/notify"
	"studygroup/services/posts"
	"studygroup/services/social"
	"studygroup/services/users"
	"studygroup/storage"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}

func run() error {
	// Load environment
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	log.Println("✓ Configuration loaded and validated")
	cfg.PrintSummary()

	// Application logger with rotation
	appLogger := logger.New(cfg.Server.LogFile)
	defer appLogger.Close()
	logger.SetDefault(appLogger)

	// Open the flat-file store; creates missing collection files
	store, err := storage.New(cfg.Storage.DataDir, appLogger)
	if err != nil {
		return fmt.Errorf("failed to open data directory: %w", err)
	}
	log.Println("✓ Collection files ready")

	// Wire services
	notifySvc := notify.NewService(store)
	svc := routes.Services{
		Store:  store,
		Users:  users.NewService(store),
		Social: social.NewService(store, notifySvc),
		Notify: notifySvc,
		Posts:  posts.NewService(store, notifySvc),
		Chat:   chat.NewService(store),
	}

	// Create server
	srv, err := server.NewServer(cfg, svc)
	if err != nil {
		return fmt.Errorf("failed to create server; err: %w", err)
	}

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Printf("Received signal: %v. Shutting down gracefully...", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("✓ Server shutdown complete")
	return nil
}
