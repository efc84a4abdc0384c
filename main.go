package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loanbook/config"
	httpLayer "loanbook/http"
	"loanbook/jobs"
	"loanbook/logger"
	"loanbook/repository"
	"loanbook/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: true})
	log.Info().Str("data_dir", cfg.DataDir).Msg("Starting loanbook")

	loanRepo, err := repository.NewFileLoanRepository(cfg.DataDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open loan store")
	}

	var cache repository.CacheRepository = repository.NewMockCache()
	if cfg.RedisAddr != "" {
		cache = repository.NewRedisCache(cfg.RedisAddr)
		log.Info().Str("addr", cfg.RedisAddr).Msg("Using redis calculator cache")
	}

	loanService := service.NewLoanService(loanRepo, cache, log)
	payoffService := service.NewPayoffService(loanService, log)

	server := httpLayer.NewServer(httpLayer.ServerConfig{
		Port:          cfg.Port,
		DevMode:       cfg.DevMode,
		APIRatePerMin: cfg.APIRatePerMin,
		Log:           log,
		Loans:         loanService,
		Payoff:        payoffService,
	})

	scheduler := jobs.NewScheduler(log)
	if cfg.BackupDir != "" {
		backup := jobs.NewBackupJob(cfg.DataDir, cfg.BackupDir, log)
		if err := scheduler.AddJob(cfg.BackupSchedule, backup); err != nil {
			log.Fatal().Err(err).Msg("Failed to schedule backup job")
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error().Err(err).Msg("Server failed")
		return
	case <-quit:
		log.Info().Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error during shutdown")
	}
	log.Info().Msg("Server exited")
}
