package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/smallcapsignal/signal-backend/internal/api"
	"github.com/smallcapsignal/signal-backend/internal/auth"
	"github.com/smallcapsignal/signal-backend/internal/blog"
	"github.com/smallcapsignal/signal-backend/internal/config"
	"github.com/smallcapsignal/signal-backend/internal/database"
	"github.com/smallcapsignal/signal-backend/internal/mailer"
	"github.com/smallcapsignal/signal-backend/internal/newsletter"
	"github.com/smallcapsignal/signal-backend/internal/pkg/logger"
	"github.com/smallcapsignal/signal-backend/internal/subscribers"
)

func main() {
	// Load configuration
	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Open the file-backed stores. Posts and subscribers live in
	// separate databases so either can be backed up or reset alone.
	postsDB, err := database.OpenPosts(cfg.Database.DataDir)
	if err != nil {
		log.Fatalf("Failed to open posts database: %v", err)
	}
	defer postsDB.Close()

	subsDB, err := database.OpenSubscribers(cfg.Database.DataDir)
	if err != nil {
		log.Fatalf("Failed to open subscribers database: %v", err)
	}
	defer subsDB.Close()

	posts := blog.NewPostStore(postsDB)
	subs := subscribers.NewStore(subsDB)
	gate := auth.NewGate(cfg.Auth.APIKey)

	sender := mailer.NewSMTPSender(cfg.SMTP)
	if cfg.SMTP.Password == "" {
		logger.Warn("no SMTP credential configured, outbound mail disabled")
	}

	dispatcher := newsletter.NewDispatcher(subs, sender, cfg.Newsletter.SendConcurrency)

	handlers := api.NewHandlers(posts, subs, gate, sender, dispatcher, cfg)
	router := api.SetupRoutes(handlers)

	addr := fmt.Sprintf("%s:%d", cfg.Server.GetHost(), cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", "addr", addr, "data_dir", cfg.Database.DataDir)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	logger.Info("shutting down")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("server stopped")
}
