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

	"github.com/joho/godotenv"

	"github.com/hzhou826/chatrelay/internal/adapter/llm"
	"github.com/hzhou826/chatrelay/internal/config"
	"github.com/hzhou826/chatrelay/internal/policy"
	"github.com/hzhou826/chatrelay/internal/service"
	"github.com/hzhou826/chatrelay/internal/store"
	transport "github.com/hzhou826/chatrelay/internal/transport/http"
)

func main() {
	// A .env file is optional; real environments set variables directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("WARN: .env file not loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting chat relay...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DSN())
	log.Printf("LLM Provider: %s", cfg.LLMProvider)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	// Initialize upstream model client
	llmClient, err := llm.NewClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	// Initialize message admission policy
	policyEngine, err := policy.NewEngineFromFile(ctx, cfg.PolicyPath)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize service and server
	svc := service.New(db, llmClient, policyEngine, cfg)
	server := transport.NewServer(svc)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Chat relay started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down chat relay...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Chat relay stopped")
}
