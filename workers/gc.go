package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const gcDiscardRatio = 0.5

// GCWorker reclaims badger value-log space in the background. RunValueLogGC
// rewrites at most one file per call and returns ErrNoRewrite when there is
// nothing worth collecting, so the worker loops until that signal on each
// tick.
type GCWorker struct {
	log      *slog.Logger
	db       *badger.DB
	interval time.Duration
}

func NewGCWorker(log *slog.Logger, db *badger.DB, interval time.Duration) *GCWorker {
	return &GCWorker{log: log, db: db, interval: interval}
}

func (w *GCWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			collected := 0
			for {
				if err := w.db.RunValueLogGC(gcDiscardRatio); err != nil {
					break
				}
				collected++
			}
			if collected > 0 {
				w.log.Debug("Value log GC pass complete", "files_rewritten", collected)
			}
		}
	}
}
