// Package worker runs the background market refresh loop.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/battvalue/valuator/internal/domain"
)

// SnapshotFetcher resolves a fresh market snapshot for one currency.
type SnapshotFetcher interface {
	GetSnapshot(ctx context.Context, currency string) (domain.MarketSnapshot, error)
}

// SnapshotHook is called after each successfully refreshed snapshot.
type SnapshotHook interface {
	Record(ctx context.Context, snapshot domain.MarketSnapshot) error
}

// RefreshWorker periodically refreshes market snapshots so interactive
// requests are served warm prices, and feeds each snapshot to an optional
// hook for persistence or monitoring.
type RefreshWorker struct {
	fetcher    SnapshotFetcher
	currencies []string
	interval   time.Duration
	hook       SnapshotHook // optional
}

// NewRefreshWorker creates a new RefreshWorker with an optional post-refresh hook.
func NewRefreshWorker(fetcher SnapshotFetcher, currencies []string, interval time.Duration, hook SnapshotHook) *RefreshWorker {
	return &RefreshWorker{
		fetcher:    fetcher,
		currencies: currencies,
		interval:   interval,
		hook:       hook,
	}
}

func (w *RefreshWorker) refreshAll(ctx context.Context) {
	for _, currency := range w.currencies {
		snapshot, err := w.fetcher.GetSnapshot(ctx, currency)
		if err != nil {
			slog.Error("RefreshWorker: refresh failed", "currency", currency, "error", err)
			continue
		}
		slog.Info("RefreshWorker: refresh completed",
			"currency", currency, "source", snapshot.PriceSource)
		w.runHook(ctx, snapshot)
	}
}

func (w *RefreshWorker) runHook(ctx context.Context, snapshot domain.MarketSnapshot) {
	if w.hook == nil {
		return
	}
	if err := w.hook.Record(ctx, snapshot); err != nil {
		slog.Error("RefreshWorker: record hook failed",
			"currency", snapshot.Currency, "error", err)
	}
}

// Run starts the refresh loop. It blocks until the context is cancelled.
func (w *RefreshWorker) Run(ctx context.Context) {
	slog.Info("RefreshWorker: starting",
		"currencies", w.currencies, "interval", w.interval)

	// Warm the cache immediately on startup
	w.refreshAll(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("RefreshWorker: shutting down")
			return
		case <-ticker.C:
			w.refreshAll(ctx)
		}
	}
}
