package main

import (
	"context"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mkurosawa/mystery-engine/internal/config"
	"github.com/mkurosawa/mystery-engine/internal/handlers"
	"github.com/mkurosawa/mystery-engine/internal/logger"
	"github.com/mkurosawa/mystery-engine/internal/middleware"
	"github.com/mkurosawa/mystery-engine/internal/services"
	"github.com/mkurosawa/mystery-engine/internal/storage"
	"github.com/mkurosawa/mystery-engine/pkg/game"
)

func main() {
	// Local development reads .env; in deployment the variables are set
	// by the environment and the file is simply absent.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Mystery Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName)

	var llmService services.LLMService
	switch cfg.LLMProvider {
	case config.ProviderGemini:
		llmService = services.NewGeminiService(cfg.GeminiAPIKey, cfg.ModelName, log)
		log.Info("Using Gemini LLM provider")
	case config.ProviderAnthropic:
		llmService = services.NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName, log)
		log.Info("Using Anthropic LLM provider")
	default:
		log.Error("Invalid LLM provider specified", "provider", cfg.LLMProvider)
		os.Exit(1)
	}

	store := storage.NewRedisStorage(cfg.RedisURL, cfg.DataDir, log)
	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()

	if err := store.WaitForConnection(storageCtx); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}

	manager := game.NewManager(store, llmService, log)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, log)
	mux.Handle("/health", healthHandler)

	chatHandler := handlers.NewChatHandler(manager, log)
	mux.Handle("/v1/chat", chatHandler)

	sessionHandler := handlers.NewSessionHandler(manager, log)
	mux.Handle("/v1/session", sessionHandler)
	mux.Handle("/v1/session/", sessionHandler)

	exploreHandler := handlers.NewExploreHandler(manager, log)
	mux.Handle("/v1/explore", exploreHandler)

	accuseHandler := handlers.NewAccuseHandler(manager, log)
	mux.Handle("/v1/accuse", accuseHandler)

	clockHandler := handlers.NewClockHandler(manager, log)
	mux.Handle("/v1/clock", clockHandler)

	scenarioHandler := handlers.NewScenarioHandler(log, store)
	mux.Handle("/v1/scenarios", scenarioHandler)
	mux.Handle("/v1/scenarios/", scenarioHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 150 * time.Second, // model calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
