package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm/logger"

	"github.com/dom/worldcup-stats/internal/api"
	"github.com/dom/worldcup-stats/internal/cache"
	"github.com/dom/worldcup-stats/internal/catalog"
	"github.com/dom/worldcup-stats/internal/config"
	"github.com/dom/worldcup-stats/internal/repository"
	"github.com/dom/worldcup-stats/internal/repository/memory"
	"github.com/dom/worldcup-stats/internal/repository/postgres"
	"github.com/dom/worldcup-stats/internal/service"
	"github.com/dom/worldcup-stats/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// Initialize repositories
	var repos *repository.Repositories
	seed := true
	if cfg.DatabaseURL != "" {
		logLevel := logger.Warn
		if cfg.IsDevelopment() {
			logLevel = logger.Info
		}
		db, err := postgres.NewConnection(cfg.DatabaseURL, logLevel)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		repos = postgres.NewRepositories(db)
		seed = cfg.SeedOnStart
	} else {
		repos = memory.NewRepositories()
	}

	// Population cache is optional
	var populationCache service.PopulationCache
	if cfg.RedisURL != "" {
		rdb, err := cache.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer rdb.Close()
		populationCache = cache.NewPopulationCache(rdb, cfg.PopulationCacheTTL)
	}

	// Initialize services
	services := service.NewServices(repos, populationCache, cfg)

	if seed {
		snap, err := catalog.Load(cfg.DataDir)
		if err != nil {
			log.Fatalf("failed to load stats from %s: %v", cfg.DataDir, err)
		}
		if err := services.Catalog.Import(ctx, snap); err != nil {
			log.Fatalf("failed to import stats: %v", err)
		}
		log.Printf("Imported %d teams and %d players from %s", len(snap.Teams), len(snap.Players), cfg.DataDir)
	}

	// Initialize WebSocket hub
	hub := websocket.NewHub(websocket.NewBackend(services), cfg.SearchDebounce)
	go hub.Run()

	// Initialize router
	router := api.NewRouter(services, hub, cfg)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}
	hub.Stop()

	log.Println("Server stopped")
}
