package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/denisschmidt/songvault/config"
	"github.com/denisschmidt/songvault/internal/blob"
	"github.com/denisschmidt/songvault/internal/server"
	"github.com/denisschmidt/songvault/internal/store"
	"github.com/denisschmidt/songvault/internal/store/db"
	"github.com/denisschmidt/songvault/internal/store/mongodb"
)

const connectTimeout = 15 * time.Second

func main() {
	configPath := flag.String("config", "", "path to a config file (json, yaml, toml or .env)")
	flag.Parse()

	log.Print("Starting songvault server")

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	catalog, err := openCatalog(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open %s catalog: %v", cfg.Catalog, err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		if err := catalog.Close(closeCtx); err != nil {
			log.Printf("failed to close catalog: %v", err)
		}
	}()

	blobs, err := blob.New(cfg.UploadDir)
	if err != nil {
		log.Fatalf("failed to open blob store: %v", err)
	}

	s, err := server.New(cfg, catalog, blobs)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	if err := s.Run(ctx); err != nil {
		log.Printf("server stopped: %v", err)
	}
}

func openCatalog(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Catalog {
	case config.CatalogMongo:
		cctx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		return mongodb.New(cctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoCollection)
	case config.CatalogSqlite:
		return db.New(cfg.DBPath)
	default:
		return nil, fmt.Errorf("unknown catalog backend %q", cfg.Catalog)
	}
}
