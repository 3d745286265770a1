package worker

import (
	"context"
	"time"

	"github.com/secmon-lab/pulse/pkg/utils/logging"
)

// Engine is the sync pass trigger the worker drives on each tick
type Engine interface {
	SyncRecent(ctx context.Context, days int) error
}

// SyncWorker manages the periodic background sync of channel messages
// into the record store.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - For future horizontal scaling, implement distributed locking or leader election
type SyncWorker struct {
	engine   Engine
	interval time.Duration
	days     int
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewSyncWorker creates a worker that runs a sync pass for the most
// recent N days every interval.
func NewSyncWorker(engine Engine, interval time.Duration, days int) *SyncWorker {
	if days < 1 {
		days = 1
	}
	return &SyncWorker{
		engine:   engine,
		interval: interval,
		days:     days,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background sync loop
// - Initial sync and periodic passes both run in a background goroutine
// - Does not block server startup
func (w *SyncWorker) Start(ctx context.Context) error {
	logging.Default().Info("Sync worker starting",
		"interval", w.interval.String(),
		"days", w.days)

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion.
// Cancellation is observed between passes only; an in-flight pass
// finishes its window first.
func (w *SyncWorker) Stop() {
	logging.Default().Info("Sync worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Sync worker stopped")
}

// run is the main worker loop (runs in goroutine)
func (w *SyncWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	// Initial pass (runs in goroutine, does not block server startup)
	if err := w.engine.SyncRecent(ctx, w.days); err != nil {
		logging.Default().Error("Initial sync pass failed (will retry next interval)",
			"error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.engine.SyncRecent(ctx, w.days); err != nil {
				// Log error but continue worker
				logging.Default().Error("Sync pass failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			logging.Default().Info("Sync worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("Sync worker context cancelled")
			return
		}
	}
}
