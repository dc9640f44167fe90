package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ebaazee/payment-service/cmd/web/handlers"
	"github.com/ebaazee/payment-service/cmd/web/validator"
	"github.com/ebaazee/payment-service/internal/audit"
	"github.com/ebaazee/payment-service/internal/health"
	"github.com/ebaazee/payment-service/internal/payment"
	"github.com/ebaazee/payment-service/internal/wallet"
	"github.com/ebaazee/payment-service/kit/broker"
	"github.com/ebaazee/payment-service/kit/config"
	"github.com/ebaazee/payment-service/kit/db"
	"github.com/ebaazee/payment-service/kit/gateway"
	"github.com/ebaazee/payment-service/kit/observability"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger()
	metricsKit := observability.NewMetrics()
	ctx := context.Background()

	var repo wallet.RepositoryContract
	if cfg.DatabaseURL != "" {
		gdb, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			logger.Error("db init error", "error", err.Error())
			return
		}
		defer func() { _ = db.Close(gdb) }()
		gormRepo := wallet.NewGormRepository(gdb)
		if err := gormRepo.Migrate(ctx); err != nil {
			logger.Error("db migrate error", "error", err.Error())
			return
		}
		repo = gormRepo
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory ledger store")
		repo = wallet.NewInMemoryRepository()
	}

	var publisher broker.Publisher
	if cfg.RabbitURL != "" {
		amqpPub, err := broker.NewAMQPPublisher(cfg.RabbitURL, cfg.Exchange)
		if err != nil {
			logger.Error("broker init error", "error", err.Error())
			return
		}
		defer func() { _ = amqpPub.Close() }()
		publisher = amqpPub
		logger.Info("connected to broker", "exchange", cfg.Exchange)
	} else {
		logger.Warn("RABBITMQ_URL not set, using in-process bus")
		publisher = broker.NewBus()
	}

	var gwClient gateway.Client
	if cfg.GatewayBaseURL != "" {
		gwClient = gateway.NewHTTPClient(cfg.GatewayBaseURL, cfg.GatewayAPIKey, cfg.GatewayTimeout)
	} else {
		logger.Warn("GATEWAY_BASE_URL not set, using fake gateway")
		gwClient = gateway.NewFakeClient()
	}
	breaker := gateway.NewBreaker(gwClient, gateway.BreakerConfig{
		FailureThreshold: cfg.BreakerFailureThreshold,
		SuccessThreshold: cfg.BreakerSuccessThreshold,
		OpenTimeout:      cfg.BreakerOpenTimeout,
	})

	auditSvc, err := audit.NewServiceWithFile(logger, "./out/audit.jsonl")
	if err != nil {
		logger.Error("audit init error", "error", err.Error())
		return
	}
	defer func() { _ = auditSvc.Close() }()

	walletSvc := wallet.NewService(repo, metricsKit)
	paymentSvc := payment.NewService(breaker, walletSvc, publisher, auditSvc, metricsKit)

	healthSvc := health.NewService(2*time.Second, map[string]health.CheckFunc{
		"ledger": func(ctx context.Context) error {
			_, err := repo.GetBalance(ctx, "__healthcheck__")
			return err
		},
		// calls the raw client so probe failures do not trip the breaker
		"gateway": func(ctx context.Context) error {
			callCtx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
			defer cancel()
			_, err := gwClient.Post(callCtx, "/verify", map[string]any{"source": "healthcheck"})
			return err
		},
	})

	go func() {
		t := time.NewTicker(10 * time.Second)
		defer t.Stop()
		for range t.C {
			snap := metricsKit.Snapshot()
			logger.Info(
				"metrics snapshot",
				"deposits_added", snap.DepositsAdded,
				"freezes_accepted", snap.FreezesAccepted,
				"freezes_rejected", snap.FreezesRejected,
				"deductions", snap.Deductions,
				"releases", snap.Releases,
				"gateway_failures", snap.GatewayFailures,
				"events_published", snap.EventsPublished,
				"events_failed", snap.EventsFailed,
			)
		}
	}()

	jsonV := validator.NewJSON()
	walletH := handlers.NewWallet(jsonV, paymentSvc, walletSvc)
	paymentH := handlers.NewPayment(jsonV, paymentSvc)
	healthH := handlers.NewHealth(healthSvc)
	metricsH := handlers.NewMetrics(metricsKit)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /wallet/deposit", walletH.Deposit)
	mux.HandleFunc("GET /wallet/{userID}", walletH.Balance)
	mux.HandleFunc("POST /wallet/freeze", walletH.Freeze)
	mux.HandleFunc("POST /wallet/unfreeze", walletH.Unfreeze)
	mux.HandleFunc("POST /wallet/deduct", walletH.Deduct)
	mux.HandleFunc("POST /payment/create", paymentH.Create)
	mux.HandleFunc("GET /healthz", healthH.Handler)
	mux.HandleFunc("GET /metrics", metricsH.Handler)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: mux, ReadHeaderTimeout: 2 * time.Second}

	shutdownCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-shutdownCtx.Done()
		drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(drainCtx); err != nil {
			logger.Error("web server shutdown error", "error", err.Error())
		}
	}()

	logger.Info("web server started", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("web server error", "error", err.Error())
	}
	logger.Info("web server stopped")
}
