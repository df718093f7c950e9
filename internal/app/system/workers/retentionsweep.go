// internal/app/system/workers/retentionsweep.go
package workers

import (
	"context"
	"sync"
	"time"

	poststore "github.com/dalemusser/collabboard/internal/app/store/posts"
	"go.uber.org/zap"
)

// RetentionSweep is a background worker that removes posts older than the
// retention window.
type RetentionSweep struct {
	posts     *poststore.Store
	log       *zap.Logger
	interval  time.Duration
	retention time.Duration
	stopCh    chan struct{}
	wg        sync.WaitGroup
}

// NewRetentionSweep creates a new retention sweep worker.
//
// Parameters:
//   - posts: the posts store
//   - logger: zap logger for logging
//   - interval: how often to sweep (e.g., 1 hour)
//   - retention: how old a post must be before removal (e.g., 240 hours)
func NewRetentionSweep(posts *poststore.Store, logger *zap.Logger, interval, retention time.Duration) *RetentionSweep {
	return &RetentionSweep{
		posts:     posts,
		log:       logger,
		interval:  interval,
		retention: retention,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the background sweep loop. The first sweep runs immediately
// so a restart never extends the retention window.
func (w *RetentionSweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("retention sweep worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("retention", w.retention))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *RetentionSweep) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("retention sweep worker stopped")
}

func (w *RetentionSweep) run() {
	defer w.wg.Done()

	w.sweep()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *RetentionSweep) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().Add(-w.retention)
	count, err := w.posts.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		w.log.Error("failed to remove expired posts", zap.Error(err))
		return
	}

	if count > 0 {
		w.log.Info("removed expired posts",
			zap.Int64("count", count),
			zap.Time("cutoff", cutoff))
	}
}
