// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"mixpool-commerce/internal/config"
	"mixpool-commerce/internal/domain/ports/adapter"
	pg "mixpool-commerce/internal/infra/db/postgres"
	"mixpool-commerce/internal/infra/logging"
	"mixpool-commerce/internal/infra/metrics"
	"mixpool-commerce/internal/infra/payment"
	red "mixpool-commerce/internal/infra/redis"
	"mixpool-commerce/internal/infra/sched"
	"mixpool-commerce/internal/infra/security"
	tele "mixpool-commerce/internal/infra/telegram"
	"mixpool-commerce/internal/infra/web"
	"mixpool-commerce/internal/infra/worker"
	"mixpool-commerce/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (noop notifier, console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	rateLimiter := red.NewRateLimiter(redisClient)
	locker := red.NewLocker(redisClient)

	// ---- Webhook signature ----
	verifier, err := security.NewWebhookVerifier(cfg.Paystack.SecretKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("webhook verifier")
	}

	// ---- Repositories ----
	txnRepo := pg.NewTransactionRepo(pool)
	orderRepo := pg.NewOrderRepo(pool)
	bookingRepo := pg.NewBookingRepo(pool)
	userRepo := pg.NewUserRepo(pool)
	planRepo := pg.NewSubscriptionPlanRepo(pool)
	productRepo := pg.NewProductRepo(pool)
	entitlementRepo := pg.NewEntitlementRepo(pool)
	tokenRepo := pg.NewDownloadTokenRepo(pool)

	// ---- Notifier ----
	var notifier adapter.Notifier
	if cfg.Runtime.Dev || cfg.Telegram.Token == "" {
		notifier = tele.NewNoopNotifier(logger)
	} else {
		notifier, err = tele.NewSaleNotifier(&cfg.Telegram, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("telegram notifier")
		}
	}

	// ---- Use cases ----
	txManager := pg.NewTxManager(pool)
	webhookUC := usecase.NewWebhookUseCase(txManager, txnRepo, orderRepo, bookingRepo, userRepo, planRepo, entitlementRepo, locker, notifier, logger)
	gateway := payment.NewPaystackGateway(cfg.Paystack.SecretKey, cfg.Paystack.BaseURL)
	paymentUC := usecase.NewPaymentUseCase(gateway, webhookUC, logger)
	entitlementUC := usecase.NewEntitlementUseCase(entitlementRepo, logger)
	downloadUC := usecase.NewDownloadUseCase(productRepo, tokenRepo, userRepo, entitlementUC, cfg.Download.TokenTTL, logger)

	// ---- Worker pool ----
	jobPool := worker.NewPool(cfg.Worker.PoolSize, logger)
	jobPool.Start(ctx)
	defer jobPool.Stop()

	// ---- Scheduled workers ----
	reconciler := sched.NewPaymentReconciler(paymentUC, orderRepo, cfg.Sched.ReconcileInterval, cfg.Sched.ReconcileStale, logger)
	go reconciler.Start(ctx)

	expiry := sched.NewExpiryWorker(cfg.Sched.ExpirySweep, userRepo, logger)
	go func() { _ = expiry.Run(ctx) }()

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	server := web.NewServer(webhookUC, paymentUC, downloadUC, verifier, jobPool, rateLimiter, auth, cfg, logger)
	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
	case <-ctx.Done():
	}
	cancel()
	if err := server.Shutdown(context.Background()); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
