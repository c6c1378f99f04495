package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/kaido-imports/kaido/internal/catalog"
	"github.com/kaido-imports/kaido/internal/cms"
	"github.com/kaido-imports/kaido/internal/config"
	"github.com/kaido-imports/kaido/internal/logging"
	"github.com/kaido-imports/kaido/internal/state"
	"github.com/kaido-imports/kaido/internal/worker"
)

// syncd periodically walks the full content-store catalog and reconciles it
// into the relational store, catching webhook deliveries that never arrived.
func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Env, "syncd")
	defer func() { _ = logger.Sync() }()

	factoryRes, err := state.NewStore(context.Background(), state.FactoryConfig{
		Backend:  cfg.StateBackend,
		MySQLDSN: cfg.MySQLDSN,
	})
	if err != nil {
		logger.Fatalw("state store init failed", "err", err)
	}

	cmsClient := cms.NewHTTPClient(cfg.CMSBaseURL, cfg.CMSDataset, cfg.CMSToken)
	syncer := catalog.NewSyncer(cmsClient, factoryRes.Store, logger)

	r := worker.Runner{
		Syncer: syncer,
		Logger: logger,
		Every:  cfg.SyncInterval,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		logger.Infow("starting", "env", cfg.Env, "interval", cfg.SyncInterval)

		err := r.Run(ctx)
		if err != nil && err != context.Canceled {
			logger.Errorw("runner stopped", "err", err)
			os.Exit(1)
		}
	}()

	waitForShutdown(logger, cancel)
}

func waitForShutdown(logger *zap.SugaredLogger, cancel func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Infow("shutdown signal received")
	cancel()
	logger.Infow("shutdown complete")
}
