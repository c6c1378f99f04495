package worker

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kaido-imports/kaido/internal/catalog"
)

// Runner periodically re-syncs the whole catalog. Webhooks cover the normal
// path; this pass repairs drift from deliveries that never arrived.
type Runner struct {
	Syncer *catalog.Syncer
	Logger *zap.SugaredLogger

	Every time.Duration
}

func (r Runner) Run(ctx context.Context) error {
	if r.Syncer == nil {
		return errors.New("syncer is nil")
	}
	if r.Every <= 0 {
		r.Every = time.Hour
	}

	ticker := time.NewTicker(r.Every)
	defer ticker.Stop()

	// one immediate pass
	r.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}

func (r Runner) tick(ctx context.Context) {
	results, err := r.Syncer.SyncAll(ctx)
	if err != nil {
		if r.Logger != nil {
			r.Logger.Warnw("reconciliation pass failed", "err", err)
		}
		return
	}

	ok, failed := 0, 0
	for _, res := range results {
		if res.Ok {
			ok++
		} else {
			failed++
		}
	}

	if r.Logger != nil {
		r.Logger.Infow("reconciliation pass finished", "total", len(results), "ok", ok, "failed", failed)
	}
}
