package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"customer-wallet-service/config"
	httpHandler "customer-wallet-service/internal/adapter/http/handler"
	stripeAdapter "customer-wallet-service/internal/adapter/payment/stripe"
	pgStorage "customer-wallet-service/internal/adapter/storage/postgres"
	redisStorage "customer-wallet-service/internal/adapter/storage/redis"
	"customer-wallet-service/internal/core/ports"
	"customer-wallet-service/internal/service"
	"customer-wallet-service/pkg/logger"

	stripeClient "github.com/stripe/stripe-go/v79/client"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Int("port", cfg.Server.Port).
		Str("currency", cfg.Wallet.DefaultCurrency).
		Msg("Starting Customer Wallet Service")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// Initialize repositories
	walletRepo := pgStorage.NewWalletRepo(pool)
	txRepo := pgStorage.NewWalletTransactionRepo(pool)
	customerRepo := pgStorage.NewCustomerRepo(pool)
	paymentMethodRepo := pgStorage.NewPaymentMethodRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	balanceCache := redisStorage.NewBalanceCache(rdb)

	// Initialize Stripe adapters
	stripeAPI := &stripeClient.API{}
	stripeAPI.Init(cfg.Stripe.SecretKey, nil)
	capturer := stripeAdapter.NewCapturer(stripeAPI)
	taxCalculator := stripeAdapter.NewTaxCalculator(stripeAPI)

	// Initialize services
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	paymentMethodSvc := service.NewPaymentMethodService(paymentMethodRepo, log)
	walletSvc := service.NewWalletService(
		walletRepo,
		txRepo,
		customerRepo,
		paymentMethodSvc,
		taxCalculator,
		capturer,
		balanceCache,
		transactor,
		cfg.Wallet.DefaultCurrency,
		cfg.Wallet.BalanceCacheTTL,
		log,
	)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		WalletSvc:         walletSvc,
		PaymentMethodRepo: paymentMethodRepo,
		TokenSvc:          tokenSvc,
		HealthCheckers:    []ports.HealthChecker{pgHealth, redisHealth},
		Logger:            log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
