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

	"github.com/joho/godotenv"
	"github.com/mapleleafu/snakearena/snakearena-backend/config"
	"github.com/mapleleafu/snakearena/snakearena-backend/game"
	"github.com/mapleleafu/snakearena/snakearena-backend/handlers"
	"github.com/mapleleafu/snakearena/snakearena-backend/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded:", err)
	}

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := handlers.NewHub()
	go hub.Run(ctx)

	g := game.New(cfg, hub)
	h := handlers.NewGameHandler(g, hub, cfg)
	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)

	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handlers.NewRouter(h, limiter),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	shutdown := make(chan struct{})
	go handleSignals(server, g, cancel, shutdown)

	log.Printf("Server running on %s", cfg.ServerAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}

	<-shutdown
	log.Println("Server stopped gracefully")
}

// handleSignals shuts the server down on SIGINT or SIGTERM, then stops the
// game loop and the hub. The hub closes every open websocket.
func handleSignals(server *http.Server, g *game.Game, stopHub context.CancelFunc, shutdown chan struct{}) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	<-sig
	log.Println("Received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	g.Close()
	stopHub()

	close(shutdown)
}
