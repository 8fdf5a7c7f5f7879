package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/snapshot-token-ledger/internal/api"
	"github.com/sheikh-saqib/snapshot-token-ledger/internal/config"
	"github.com/sheikh-saqib/snapshot-token-ledger/internal/events/kafka"
	eventsmem "github.com/sheikh-saqib/snapshot-token-ledger/internal/events/memory"
	interfaces "github.com/sheikh-saqib/snapshot-token-ledger/internal/interfaces"
	"github.com/sheikh-saqib/snapshot-token-ledger/internal/ledger"
	"github.com/sheikh-saqib/snapshot-token-ledger/internal/logging"
	"github.com/sheikh-saqib/snapshot-token-ledger/internal/models"
	"github.com/sheikh-saqib/snapshot-token-ledger/internal/storage"
)

// recentEvents bounds the in-memory event log used when no broker is configured.
const recentEvents = 1024

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	policy, err := ledger.ParseSnapshotPolicy(cfg.SnapshotPolicy)
	if err != nil {
		return err
	}

	journal, closeJournal, err := storage.OpenJournal(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer closeJournal()

	var publisher interfaces.EventPublisher = eventsmem.NewRecorder(recentEvents)
	if len(cfg.KafkaBrokers) > 0 {
		p := kafka.NewPublisher(cfg.KafkaBrokers)
		defer p.Close()
		publisher = p
		logger.Info("publishing events to kafka", zap.Strings("brokers", cfg.KafkaBrokers))
	}

	l, err := ledger.New(cfg.TokenName, cfg.TokenSymbol, cfg.TokenDecimals,
		models.Address(cfg.Admin).Normalize(),
		ledger.WithJournal(journal),
		ledger.WithPublisher(publisher),
		ledger.WithTopicPrefix(cfg.TopicPrefix),
		ledger.WithSnapshotPolicy(policy),
		ledger.WithLogger(logger.Named("ledger")),
	)
	if err != nil {
		return err
	}

	ops, err := journal.Operations(ctx)
	if err != nil {
		return err
	}
	if err := l.Replay(ctx, ops); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	srv, err := api.NewServer(l, logger.Named("api"), reg, reg)
	if err != nil {
		return err
	}

	httpServer := &http.Server{Addr: cfg.HTTPAddress, Handler: srv}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("address", cfg.HTTPAddress))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
