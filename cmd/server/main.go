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

	"github.com/slideforge/slideforge-backend/internal/config"
	"github.com/slideforge/slideforge-backend/internal/database"
	"github.com/slideforge/slideforge-backend/internal/handlers"
	"github.com/slideforge/slideforge-backend/internal/repository"
	"github.com/slideforge/slideforge-backend/internal/router"
	"github.com/slideforge/slideforge-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting Slideforge Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Open History Store ────
	db, err := database.Open(cfg.HistoryDBPath)
	if err != nil {
		log.Fatalf("✗ History store open failed: %v", err)
	}
	defer db.Close()
	log.Printf("✓ History store ready (%s)", cfg.HistoryDBPath)

	// ──── Initialize Repositories & Services ────
	historyRepo := repository.NewHistoryRepo(db)
	normalizer := services.NewNormalizer(services.NewZipDocxExtractor())

	factory := func(ctx context.Context, apiKey, model string) (handlers.Generator, error) {
		textModel, imageModel := cfg.GeminiTextModel, cfg.GeminiImageModel
		if model != "" {
			// One request carries one action, so the override applies
			// to whichever model that action uses.
			textModel, imageModel = model, model
		}
		return services.NewGeminiService(ctx, apiKey, textModel, imageModel)
	}

	if cfg.GeminiAPIKey == "" {
		log.Println("⚠ No fallback GEMINI_API_KEY set; clients must send X-API-Key")
	}

	// ──── Initialize Handlers ────
	generateHandler := handlers.NewGenerateHandler(factory, cfg.GeminiAPIKey)
	documentHandler := handlers.NewDocumentHandler(normalizer)
	historyHandler := handlers.NewHistoryHandler(historyRepo)

	// ──── Step 3: Start HTTP Server ────
	r := router.New(
		generateHandler,
		documentHandler,
		historyHandler,
		cfg.FrontendURL,
		cfg.GenerateRatePerMin,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Slideforge Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
