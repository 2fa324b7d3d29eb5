package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dskcredit/internal/cache"
	"dskcredit/internal/config"
	"dskcredit/internal/database"
	"dskcredit/internal/encoder"
	"dskcredit/internal/handler"
	"dskcredit/internal/health"
	"dskcredit/internal/notify"
	"dskcredit/internal/service"
	"dskcredit/internal/worker"
)

func main() {
	cfg := config.New()

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	if cfg.MerchantCID == "" {
		slog.Warn("MERCHANT_CID is empty, bank callbacks will be rejected")
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	db, dialect, err := database.NewDB(cfg.DatabaseURI)
	if err != nil {
		slog.Error("failed to connect to DB", "error", err)
		os.Exit(1)
	}
	defer database.CloseDB(context.Background(), db)

	if cfg.Uninstall {
		if err := database.DropSchema(db); err != nil {
			slog.Error("failed to drop DB schema", "error", err)
			os.Exit(1)
		}
		slog.Info("credit order table dropped")
		return
	}

	if err := database.InitSchema(db, dialect); err != nil {
		slog.Error("failed to init DB schema", "error", err)
		os.Exit(1)
	}

	enc, err := encoder.NewFromFile(cfg.PublicKeyPath)
	if err != nil {
		slog.Error("failed to load bank public key", "path", cfg.PublicKeyPath, "error", err)
		os.Exit(1)
	}

	checker := health.NewHealthChecker("dskcredit")
	checker.AddCheck(string(dialect), health.CheckerFunc(db.PingContext))

	bankOpts := service.BankClientOptions{
		Timeout:      cfg.BankTimeout,
		MaxRedirects: cfg.BankMaxRedirects,
		CacheTTL:     cfg.BankCacheTTL,
	}
	if cfg.RedisAddr != "" && cfg.BankCacheTTL > 0 {
		rc, err := cache.NewRedis(context.Background(), cfg.RedisAddr)
		if err != nil {
			slog.Warn("redis unavailable, bank responses will not be cached", "addr", cfg.RedisAddr, "error", err)
		} else {
			defer rc.Close()
			bankOpts.Cache = rc
			checker.AddCheck("redis", rc)
		}
	}

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.AMQPURL != "" {
		an, err := notify.DialAMQP(cfg.AMQPURL)
		if err != nil {
			slog.Warn("amqp unavailable, failures will only be logged", "error", err)
		} else {
			defer an.Close()
			notifier = an
		}
	}

	// Services
	bank := service.NewBankClient(cfg.BankBaseURL, cfg.MerchantCID, bankOpts)
	orders := service.NewOrderStore(db)
	policy := service.NewAvailabilityPolicy(cfg, bank)
	calc := service.NewCalculator(cfg, bank)
	checkout := service.NewCheckoutService(cfg, bank, enc, orders, notifier)
	authSvc := service.NewAuthService(cfg.AdminPasswordHash, cfg.JWTSecret)

	// Worker
	gaugeWorker := worker.NewStatusGaugeWorker(orders, cfg.StatusGaugeInterval)

	r := handler.NewRouter(handler.Deps{
		Policy:     policy,
		Calculator: calc,
		Checkout:   checkout,
		Orders:     orders,
		Auth:       authSvc,
		Health:     checker,
		MerchantID: cfg.MerchantCID,
		JWTSecret:  cfg.JWTSecret,
	})

	// Bank calls may take up to BankTimeout, so the write deadline must
	// leave room for them.
	srv := &http.Server{
		Addr:         cfg.RunAddress,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10*time.Second + 2*cfg.BankTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go gaugeWorker.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	slog.Info("starting server", "addr", cfg.RunAddress, "version", config.Version, "bank", cfg.BankBaseURL)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-quit
	slog.Info("shutting down...")

	cancel() // stop worker
	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	slog.Info("server stopped")
}
