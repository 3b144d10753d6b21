package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ims/internal/config"
	"ims/internal/infra"
	"ims/internal/router"
	"ims/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis carries change events between instances and the alert queue.
	// The service runs without it, with local-only notifications.
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		rdb, err = infra.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, running without event fan-out and alert e-mails")
		}
	}

	svcs := router.NewServices(ctx, cfg, db, rdb)

	// Worker handlers are wired here (composition root) so that the pool
	// has full access to all infrastructure dependencies.
	var pool *worker.Pool
	if rdb != nil {
		mailer := infra.NewMailer(cfg)
		smtpCB := infra.NewCircuitBreaker(infra.CircuitBreakerConfig{FailureThreshold: 3, OpenTimeout: time.Minute})
		pool = worker.NewPool(rdb)
		pool.Register(worker.QueueLowStockAlert, worker.NewLowStockAlertWorker(mailer, smtpCB, cfg.AlertEmailTo))
		pool.Start(ctx, cfg.WorkerPoolSize)
	}
	sweepDone := worker.StartLowStockSweep(ctx, svcs.Inventory, time.Duration(cfg.LowStockSweepSeconds)*time.Second)

	r := router.New(cfg, db, rdb, svcs)

	// No WriteTimeout: /v1/products/events is a long-lived stream. Request
	// contexts derive from ctx so cancelling it closes open streams.
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     r,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("inventory service listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	// stop workers and event streams first so Shutdown is not held by SSE clients
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if pool != nil {
		pool.Wait()
	}
	<-sweepDone
	if rdb != nil {
		_ = rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}
