package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/duespay/duespay/internal/application/services"
	"github.com/duespay/duespay/internal/config"
	"github.com/duespay/duespay/internal/infrastructure/persistence/postgres"
	"github.com/duespay/duespay/internal/interfaces/rest/handlers"
	"github.com/duespay/duespay/internal/interfaces/rest/middleware"
	"github.com/duespay/duespay/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting duespay service",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	paymentRepo := postgres.NewPaymentRepository(db)
	historyRepo := postgres.NewHistoryRepository(db)
	idempotencyRepo := postgres.NewIdempotencyRepository(db)

	guard := services.NewIdempotencyGuard(idempotencyRepo, cfg.Idempotency, logger)
	createService := services.NewCreateService(paymentRepo, guard, logger)
	batchService := services.NewBatchService(createService, guard, cfg.Batch, logger)
	transitionService := services.NewTransitionService(paymentRepo, logger)
	queryService := services.NewQueryService(paymentRepo, historyRepo)

	h := handlers.NewPaymentHandler(
		createService,
		batchService,
		transitionService,
		queryService,
	)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	handler := middleware.Recovery(logger)(mux)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	janitor := worker.NewJanitor(idempotencyRepo, cfg.Janitor, logger)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go janitor.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
