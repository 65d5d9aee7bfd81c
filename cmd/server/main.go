package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/flashdeck/internal/api"
	"github.com/vytor/flashdeck/internal/config"
	"github.com/vytor/flashdeck/internal/db"
	"github.com/vytor/flashdeck/internal/jobs"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/repository/sqlite"
	"github.com/vytor/flashdeck/internal/services"
	"github.com/vytor/flashdeck/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithFormat(logger.ParseFormat(cfg.LogFormat)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}

	log.Info("flashdeck server starting")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("public_url=%s", cfg.PublicURL)
	log.Debug("cors_origins=%v", cfg.CORSOrigins)
	log.Debug("session_ttl=%v", cfg.SessionTTL)
	log.Debug("max_decks_per_user=%d", cfg.MaxDecksPerUser)
	log.Debug("max_cards_per_deck=%d", cfg.MaxCardsPerDeck)
	log.Debug("worker_count=%d queue_size=%d", cfg.WorkerCount, cfg.QueueSize)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Repositories
	userRepo := sqlite.NewUserRepository(database.DB)
	sessionRepo := sqlite.NewSessionRepository(database.DB)
	deckRepo := sqlite.NewDeckRepository(database.DB)
	cardRepo := sqlite.NewCardRepository(database.DB)
	shareRepo := sqlite.NewShareRepository(database.DB)
	studyRepo := sqlite.NewStudyRepository(database.DB)

	// Background jobs
	pool := worker.NewPool(cfg.WorkerCount, cfg.QueueSize).WithLogger(log.WithPrefix("worker"))
	queue := jobs.NewWorkerQueue(pool, studyRepo, deckRepo, sessionRepo)

	srv := &api.Server{
		AuthService:     services.NewAuthService(userRepo, sessionRepo, cfg.SessionTTL),
		UserService:     services.NewUserService(userRepo, sessionRepo),
		DeckService:     services.NewDeckService(deckRepo, cfg.MaxDecksPerUser),
		CardService:     services.NewCardService(deckRepo, cardRepo, queue, cfg.MaxCardsPerDeck),
		ShareService:    services.NewShareService(deckRepo, cardRepo, shareRepo, cfg.PublicURL, cfg.MaxDecksPerUser),
		StudyService:    services.NewStudyService(deckRepo, cardRepo, studyRepo, queue),
		DB:              database,
		CORSOrigins:     cfg.CORSOrigins,
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
	}

	ctx, cancel := context.WithCancel(logger.NewContext(context.Background(), log))
	pool.Start(ctx)
	go queue.RunPurgeLoop(ctx, cfg.PurgeInterval)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Drain queued recalculations before the database closes.
	log.Debug("stopping worker pool")
	pool.Stop()
	cancel()

	log.Info("flashdeck server stopped")
}
