package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"privilege-club/internal/config"
	pg "privilege-club/internal/infra/db/postgres"
	"privilege-club/internal/infra/logging"
	"privilege-club/internal/infra/metrics"
	red "privilege-club/internal/infra/redis"
	"privilege-club/internal/infra/sched"
	"privilege-club/internal/infra/web"
	"privilege-club/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, relaxed cookies)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer redisClient.Close()

	cooldown := time.Duration(cfg.Engine.CooldownHours) * time.Hour
	locationCache := red.NewLocationCache(redisClient, cfg.Engine.LocationMaxAge)

	// ---- Repositories ----
	partnerRepo := pg.NewPostgresPartnerRepo(pool)
	offerRepo := pg.NewPostgresOfferRepo(pool)
	memberRepo := pg.NewPostgresMemberRepo(pool)
	activationRepo := red.NewCachedActivationRepo(pg.NewPostgresActivationRepo(pool), redisClient, cooldown)
	subGate := pg.NewPostgresSubscriptionGate(pool)
	txm := pg.NewTxManager(pool)

	// ---- Use cases ----
	eligibilityUC := usecase.NewEligibilityUseCase(partnerRepo, activationRepo, locationCache, subGate, usecase.EligibilityConfig{
		ProximityRadiusMeters: cfg.Engine.ProximityRadiusMeters,
		Cooldown:              cooldown,
		LocationTimeout:       cfg.Engine.LocationTimeout,
	}, logger)
	activationUC := usecase.NewActivationUseCase(eligibilityUC, partnerRepo, offerRepo, activationRepo, usecase.ActivationConfig{
		CodeTTL: cfg.Engine.CodeTTL,
	}, logger)
	feedbackUC := usecase.NewFeedbackUseCase(activationRepo, memberRepo, txm, usecase.FeedbackConfig{
		BasePoints:      cfg.Points.Base,
		PerRatingPoints: cfg.Points.PerRating,
		SavingsBonus:    cfg.Points.SavingsBonus,
	}, logger)

	// ---- Metrics ----
	metrics.MustRegister()

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Web.JWTSecret, !cfg.Runtime.Dev, "", cfg.Web.SessionTTL)
	sessionCfg := usecase.SessionConfig{PollInterval: cfg.Engine.PollInterval}
	srv := web.NewServer(eligibilityUC, activationUC, feedbackUC, partnerRepo, locationCache, auth, sessionCfg, logger)
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Web.Port), Handler: srv.Router()}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Retention worker ----
	keep := time.Duration(cfg.Retention.KeepDays) * 24 * time.Hour
	worker := sched.NewRetentionWorker(cfg.Retention.SweepInterval, keep, activationRepo, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown error")
	}
	srv.Shutdown()
}
