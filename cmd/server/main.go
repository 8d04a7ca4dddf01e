package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cardioguard/internal/assistant"
	"cardioguard/internal/metrics"
	"cardioguard/internal/notify"
	"cardioguard/internal/server"
	"cardioguard/internal/storage"
	"cardioguard/internal/triage"
	"cardioguard/pkg/config"

	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize storage
	var store storage.Storage
	if cfg.Database.UseInMemory {
		logger.Info("Using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		logger.Info("Using PostgreSQL storage")
		dbConfig := storage.DatabaseConfig{
			Host:        cfg.Database.Host,
			Port:        cfg.Database.Port,
			User:        cfg.Database.User,
			Password:    cfg.Database.Password,
			DBName:      cfg.Database.DBName,
			SSLMode:     cfg.Database.SSLMode,
			UseInMemory: cfg.Database.UseInMemory,
		}
		store, err = storage.NewPostgresStorage(dbConfig)
		if err != nil {
			logger.Fatal("Failed to initialize storage", zap.Error(err))
		}
	}
	defer store.Close()

	if err := storage.SeedDemoPatients(context.Background(), store); err != nil {
		logger.Fatal("Failed to seed demo patients", zap.Error(err))
	}

	// Initialize the triage engine and assistant
	engine := triage.NewEngine(store, triage.NewMemoryConversationStore(), logger)

	var assist assistant.Assistant = assistant.NewRuleAssistant(engine)
	if cfg.Assistant.UseGPT {
		logger.Info("Using GPT assistant with rule fallback")
		assist = assistant.NewGPTAssistant(
			cfg.OpenAI.APIKey,
			cfg.OpenAI.Model,
			cfg.OpenAI.MaxTokens,
			cfg.OpenAI.Temperature,
			assist,
			logger,
		)
	}

	// Initialize care-team notifier
	var notifier notify.Notifier = notify.NewLogNotifier(logger)
	if cfg.Telegram.Token != "" && cfg.Telegram.CareTeamChatID != 0 {
		tn, err := notify.NewTelegramNotifier(cfg.Telegram.Token, cfg.Telegram.CareTeamChatID, logger)
		if err != nil {
			logger.Fatal("Failed to create telegram notifier", zap.Error(err))
		}
		logger.Info("Escalations will be sent to the care-team Telegram chat")
		notifier = tn
	}

	// Initialize the HTTP server
	srv := server.New(store, assist, notifier, metrics.New(), logger)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}

	go func() {
		logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
	}
}
