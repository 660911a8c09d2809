package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/avelarde/chatbridge/internal/chat"
	"github.com/avelarde/chatbridge/internal/config"
	"github.com/avelarde/chatbridge/internal/httpapi"
	"github.com/avelarde/chatbridge/internal/observability"
	"github.com/avelarde/chatbridge/internal/session"
	"github.com/avelarde/chatbridge/internal/upstream"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	store, err := session.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("session store init failed: %v", err)
	}
	defer store.Close()

	client, err := upstream.NewClient(cfg)
	if err != nil {
		log.Fatalf("upstream client init failed: %v", err)
	}
	log.Printf("chat provider: %s", client.Provider())

	correlator := chat.NewCorrelator(store, client, metrics, cfg.UpstreamTimeout)

	api := httpapi.New(cfg, correlator)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
