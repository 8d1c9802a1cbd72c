package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/acadsys/acadsys-backend/internal/config"
	"github.com/acadsys/acadsys-backend/internal/database"
	"github.com/acadsys/acadsys-backend/internal/handler"
	"github.com/acadsys/acadsys-backend/internal/logger"
	"github.com/acadsys/acadsys-backend/internal/repository"
	"github.com/acadsys/acadsys-backend/internal/router"
	"github.com/acadsys/acadsys-backend/internal/service"
	"github.com/acadsys/acadsys-backend/internal/store"
	"github.com/acadsys/acadsys-backend/internal/validator"
	"github.com/acadsys/acadsys-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("store", cfg.StoreBackend).
		Msg("Starting AcadSys Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Entity Store ──────────────────────────────────────────────────
	// The academic records live behind an opaque record store. The
	// backend can be either the embedded PostgreSQL store or a remote
	// record service, selected by STORE_BACKEND.
	var entityStore store.Store
	switch cfg.StoreBackend {
	case config.StoreBackendRemote:
		entityStore = store.NewRemoteStore(cfg.StoreBaseURL, cfg.StoreAPIKey, log)
	default:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		entityStore = store.NewPostgresStore(pool, log)
	}

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(entityStore)
	roomRepo := repository.NewRoomRepository(entityStore)
	disciplineRepo := repository.NewDisciplineRepository(entityStore)
	sectionRepo := repository.NewClassSectionRepository(entityStore)

	// ─── Initialize Services ──────────────────────────────────────────
	sessionStore := service.NewRedisSessionStore(rdb, log)
	publisher := service.NewRedisChangePublisher(rdb)
	sessionService := service.NewSessionService(cfg, userRepo, sessionStore, log)
	userService := service.NewUserService(cfg, userRepo, log)
	classroomService := service.NewClassroomService(roomRepo, disciplineRepo, sectionRepo, publisher, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(sessionService, userService),
		Room:         handler.NewRoomHandler(classroomService),
		Discipline:   handler.NewDisciplineHandler(classroomService),
		ClassSection: handler.NewClassSectionHandler(classroomService),
		User:         handler.NewUserHandler(userService),
		WS:           handler.NewWSHandler(rdb, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	refreshWorker := worker.NewRefreshWorker(classroomService, rdb, cfg.RefreshInterval, log)
	go refreshWorker.Start(workerCtx)

	// ─── Prewarm the Classroom Cache ──────────────────────────────────
	// Load every academic collection BEFORE accepting traffic so the
	// first request never races a cold cache.
	if err := classroomService.LoadAll(ctx); err != nil {
		log.Warn().Err(err).Msg("Cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(sessionService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the refresh worker.
	workerCancel()
	time.Sleep(1 * time.Second) // Allow the worker to unsubscribe.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
