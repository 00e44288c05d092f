package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kingstons-portal/irr-engine-backend/internal/api"
	"github.com/kingstons-portal/irr-engine-backend/internal/config"
	"github.com/kingstons-portal/irr-engine-backend/internal/database"
	"github.com/kingstons-portal/irr-engine-backend/internal/repository"
	"github.com/kingstons-portal/irr-engine-backend/internal/secrets"
	"github.com/kingstons-portal/irr-engine-backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply schema migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Create repositories
	portfolioRepo := repository.NewPortfolioRepository(db)
	valuationRepo := repository.NewValuationRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	irrRepo := repository.NewIRRRepository(db)

	codec, err := secrets.NewCodec(cfg.Security.FernetKey)
	if err != nil {
		log.Fatalf("Failed to load fernet key: %v", err)
	}

	// Create services
	systemService := service.NewSystemService(db, codec)
	orchestrator := service.NewCascadeOrchestrator(
		db,
		portfolioRepo,
		valuationRepo,
		activityRepo,
		irrRepo,
	)
	valuationService := service.NewValuationService(
		portfolioRepo,
		valuationRepo,
		activityRepo,
		irrRepo,
		orchestrator,
	)
	sweepService := service.NewSweepService(
		orchestrator,
		portfolioRepo,
		valuationRepo,
		cfg.Sweep.Concurrency,
	)

	if err := sweepService.Start(cfg.Sweep.Schedule); err != nil {
		log.Fatalf("Failed to start revaluation sweep: %v", err)
	}
	defer sweepService.Stop()

	// Create router
	router := api.NewRouter(systemService, valuationService, orchestrator, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
