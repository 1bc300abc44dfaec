// internal/app/system/workers/auditpurge.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// eventPurger deletes audit events recorded before a cutoff.
type eventPurger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// AuditPurge is a background worker that drops audit events older than the
// retention window.
type AuditPurge struct {
	events    eventPurger
	log       *zap.Logger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
	stopCh    chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// NewAuditPurge creates a new audit purge worker.
//
// Parameters:
//   - events: the audit store
//   - logger: zap logger for logging
//   - interval: how often to run the purge (e.g., 1 hour)
//   - retention: how long events are kept (e.g., 90 days)
func NewAuditPurge(events eventPurger, logger *zap.Logger, interval, retention time.Duration) *AuditPurge {
	return &AuditPurge{
		events:    events,
		log:       logger,
		interval:  interval,
		retention: retention,
		now:       time.Now,
		stopCh:    make(chan struct{}),
	}
}

// Start runs one purge immediately, then begins the background loop.
func (w *AuditPurge) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("audit purge worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("retention", w.retention))
}

// Stop signals the worker to stop and waits for it to finish.
// Calling Stop more than once is safe.
func (w *AuditPurge) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.wg.Wait()
		w.log.Info("audit purge worker stopped")
	})
}

func (w *AuditPurge) run() {
	defer w.wg.Done()

	w.purge()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.purge()
		}
	}
}

func (w *AuditPurge) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := w.now().UTC().Add(-w.retention)
	count, err := w.events.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		w.log.Error("failed to purge audit events", zap.Error(err))
		return
	}

	if count > 0 {
		w.log.Info("purged audit events", zap.Int64("count", count), zap.Time("cutoff", cutoff))
	}
}
