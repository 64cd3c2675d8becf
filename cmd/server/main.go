package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"trastienda/internal/borrowing"
	"trastienda/internal/catalog"
	"trastienda/internal/config"
	"trastienda/internal/infrastructure/logger"
	"trastienda/internal/infrastructure/mysql"
	"trastienda/internal/ledger"
	"trastienda/internal/loan"
	"trastienda/internal/report"
	"trastienda/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New("trastienda", cfg.Log.Level)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	ledgerCtrl := ledger.NewModule(db, cfg, zapLogger)
	catalogCtrl := catalog.NewModule(db, zapLogger)
	loanCtrl := loan.NewModule(db, cfg, zapLogger)
	borrowingCtrl := borrowing.NewModule(db, cfg, zapLogger)
	reportCtrl := report.NewModule(db, zapLogger)

	router := server.NewRouter(ledgerCtrl, catalogCtrl, loanCtrl, borrowingCtrl, reportCtrl, zapLogger)

	srv := server.New(cfg.Server, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
