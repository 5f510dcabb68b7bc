package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/memorymatch/internal/api"
	"github.com/vytor/memorymatch/internal/config"
	"github.com/vytor/memorymatch/internal/db"
	"github.com/vytor/memorymatch/internal/deck"
	"github.com/vytor/memorymatch/internal/jobs"
	"github.com/vytor/memorymatch/internal/logger"
	"github.com/vytor/memorymatch/internal/repository/sqlite"
	"github.com/vytor/memorymatch/internal/services"
	"github.com/vytor/memorymatch/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Memory Match Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("default_grid=%s", cfg.DefaultGrid)
	log.Debug("clock_interval_ms=%d", cfg.ClockIntervalMS)
	log.Debug("reveal_delay_ms=%d", cfg.RevealDelayMS)
	log.Debug("persist_worker_count=%d", cfg.PersistWorkerCount)
	log.Debug("persist_queue_size=%d", cfg.PersistQueueSize)
	log.Debug("session_idle_ttl_minutes=%d", cfg.SessionIdleTTLMinutes)
	log.Debug("login_attempts_per_minute=%d", cfg.LoginAttemptsPerMin)
	log.Debug("admin_username=%s", cfg.AdminUsername)

	// Validate has already accepted the grid.
	defaultGrid, _ := deck.ParseGrid(cfg.DefaultGrid)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	scoreRepo := sqlite.NewScoreRepository(database.DB)
	themeRepo := sqlite.NewThemeRepository(database.DB)
	userRepo := sqlite.NewUserRepository(database.DB)

	scoreService := services.NewScoreService(scoreRepo)
	themeService := services.NewThemeService(themeRepo)
	userService := services.NewUserService(userRepo, cfg.BcryptCost, services.WithAdminUsername(cfg.AdminUsername))
	if err := userService.EnsureAdmin(context.Background()); err != nil {
		log.Error("failed to set up admin account: %v", err)
		os.Exit(1)
	}

	persistPool := worker.NewPool(cfg.PersistWorkerCount, cfg.PersistQueueSize)
	persistPool.Start(context.Background())

	gameService := services.NewGameService(themeService, jobs.NewWorkerQueue(persistPool, scoreService), services.GameConfig{
		ClockInterval: cfg.ClockInterval(),
		RevealDelay:   cfg.RevealDelay(),
		IdleTTL:       cfg.SessionIdleTTL(),
	})

	srv := &api.Server{
		DB:           database,
		GameService:  gameService,
		ScoreService: scoreService,
		ThemeService: themeService,
		UserService:  userService,
		DefaultGrid:  defaultGrid,
	}
	if cfg.LoginAttemptsPerMin > 0 {
		srv.LoginLimiter = api.NewLoginLimiter(cfg.LoginAttemptsPerMin)
	}

	janitorCtx, stopJanitor := context.WithCancel(context.Background())
	defer stopJanitor()
	if ttl := cfg.SessionIdleTTL(); ttl > 0 {
		go gameService.RunJanitor(janitorCtx, time.Minute)
	}

	// No WriteTimeout: clock streams stay open; other routes are bounded by
	// the API's timeout middleware.
	httpServer := &http.Server{
		Addr:        cfg.Addr,
		Handler:     srv.Routes(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	// Clock streams never go idle, so end them once Shutdown starts; other
	// in-flight requests are left to finish.
	httpServer.RegisterOnShutdown(gameService.StopClocks)

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

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
	stopJanitor()

	log.Debug("draining persistence pool (%d queued)", persistPool.QueueSize())
	persistPool.Stop()

	log.Info("===========================================")
	log.Info("Memory Match Server Stopped")
	log.Info("===========================================")
}
