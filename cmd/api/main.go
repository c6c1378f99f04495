package main

import (
	"context"
	"crypto/rsa"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kaido-imports/kaido/internal/api/auth"
	"github.com/kaido-imports/kaido/internal/api/handlers"
	"github.com/kaido-imports/kaido/internal/api/middleware"
	"github.com/kaido-imports/kaido/internal/catalog"
	"github.com/kaido-imports/kaido/internal/cms"
	"github.com/kaido-imports/kaido/internal/config"
	"github.com/kaido-imports/kaido/internal/logging"
	"github.com/kaido-imports/kaido/internal/migrate"
	"github.com/kaido-imports/kaido/internal/state"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Env, "api")
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	factoryRes, err := state.NewStore(ctx, state.FactoryConfig{
		Backend:  cfg.StateBackend,
		MySQLDSN: cfg.MySQLDSN,
	})
	if err != nil {
		logger.Fatalw("state store init failed", "err", err)
	}
	store := factoryRes.Store

	if cfg.RunMigrations && factoryRes.DB != nil {
		if err := migrate.ApplyDir(ctx, factoryRes.DB, "./migrations"); err != nil {
			logger.Fatalw("migrations failed", "err", err)
		}
	}

	cmsClient := cms.NewHTTPClient(cfg.CMSBaseURL, cfg.CMSDataset, cfg.CMSToken)
	syncer := catalog.NewSyncer(cmsClient, store, logger)

	var adminKey *rsa.PublicKey
	if key, err := auth.LoadRSAPublicKeyFromEnv("JWT_PUBLIC_KEY_PEM"); err == nil {
		adminKey = key
	} else if cfg.Env != "dev" {
		logger.Fatalw("admin public key required outside dev", "err", err)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	// Content-store webhook: secret-gated, redeliveries replay from cache.
	mux.Handle("/v1/catalog/webhook", middleware.WebhookSecretMiddleware{
		Secret: cfg.WebhookSecret,
		Next: middleware.IdempotencyMiddleware{
			Store: store,
			Next:  handlers.WebhookHandler{Syncer: syncer, Logger: logger},
		},
	})

	// Operator endpoints
	mux.Handle("/v1/catalog/sync", middleware.AuthMiddleware{
		Env:       cfg.Env,
		PublicKey: adminKey,
		Next:      handlers.SyncHandler{Syncer: syncer, Logger: logger},
	})
	mux.Handle("/v1/catalog/sync-all", middleware.AuthMiddleware{
		Env:       cfg.Env,
		PublicKey: adminKey,
		Next:      handlers.SyncAllHandler{Syncer: syncer, Logger: logger},
	})

	// Shipping calculator
	mux.Handle("/v1/shipping/quote", handlers.QuoteHandler{Store: store, Logger: logger})
	mux.Handle("/v1/shipping/destinations", handlers.DestinationsHandler{})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Infow("starting", "env", cfg.Env, "addr", server.Addr, "backend", cfg.StateBackend)

		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.Errorw("server error", "err", err)
			os.Exit(1)
		}
	}()

	waitForShutdown(logger, server)
}

func waitForShutdown(logger *zap.SugaredLogger, server *http.Server) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Infow("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = server.Shutdown(ctx)
	logger.Infow("shutdown complete")
}
