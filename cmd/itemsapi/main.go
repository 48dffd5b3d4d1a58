package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"itemsapi/internal/config"
	"itemsapi/internal/infra/db"
	httpinfra "itemsapi/internal/infra/http"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if !cfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := db.NewStore(cfg)
	if err != nil {
		log.Fatalf("failed to init store: %v", err)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	schemaCtx, cancel := context.WithTimeout(ctx, cfg.DBConnectTimeout)
	err = store.EnsureSchema(schemaCtx)
	cancel()
	if err != nil {
		store.Close()
		log.Fatalf("failed to ensure schema: %v", err)
	}

	srv := httpinfra.NewServer(cfg, store)
	if err := srv.Run(ctx); err != nil {
		store.Close()
		log.Fatalf("server exited: %v", err)
	}
}
