package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/smokwena/dispute-backend/internal/api"
	"github.com/smokwena/dispute-backend/internal/auth"
	"github.com/smokwena/dispute-backend/internal/config"
	"github.com/smokwena/dispute-backend/internal/db"
	"github.com/smokwena/dispute-backend/internal/events"
	"github.com/smokwena/dispute-backend/internal/logger"
	"github.com/smokwena/dispute-backend/internal/metrics"
	"github.com/smokwena/dispute-backend/internal/repository/postgres"
	"github.com/smokwena/dispute-backend/internal/services"
	"github.com/smokwena/dispute-backend/internal/session"
	"github.com/smokwena/dispute-backend/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if os.Getenv("APP_MIGRATE") == "true" {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	redisClient, err := session.Connect(cfg.RedisURL)
	if err != nil {
		log.Error("redis connect", "err", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	sessions := session.NewRedisStore(redisClient)

	metrics.Init()

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(4)
	defer wp.Stop()

	pub := events.NewPublisher(cfg.KafkaBrokers, log)
	defer pub.Close()

	tm := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTRefresh, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL)

	userSvc := services.NewUserService(repos.Users, tm, sessions, cfg.SessionTTL)
	txnSvc := services.NewTransactionService(repos.Transactions, repos.Disputes)
	disputeSvc := services.NewDisputeService(repos.Disputes, repos.DisputeEvents, repos.Transactions, pub, wp, log)

	r := api.NewRouter(api.RouterDeps{
		Cfg:      cfg,
		TM:       tm,
		Users:    userSvc,
		Txns:     txnSvc,
		Disputes: disputeSvc,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
