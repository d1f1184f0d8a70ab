package catalog

import (
	"context"
	"io"
	"log"
	"time"

	"fashionpos/internal/domain"
)

type Fetcher interface {
	FetchVariants(ctx context.Context, search string) ([]domain.Variant, error)
}

// Refresher refetches the catalog on an interval and replaces the snapshot.
// A failed fetch keeps the previous snapshot.
type Refresher struct {
	snapshot *Snapshot
	fetcher  Fetcher
	interval time.Duration
	logger   *log.Logger
}

func NewRefresher(snapshot *Snapshot, fetcher Fetcher, interval time.Duration, logger *log.Logger) *Refresher {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Refresher{snapshot: snapshot, fetcher: fetcher, interval: interval, logger: logger}
}

// RefreshOnce fetches immediately and replaces the snapshot on success.
func (r *Refresher) RefreshOnce(ctx context.Context) error {
	variants, err := r.fetcher.FetchVariants(ctx, "")
	if err != nil {
		return err
	}
	r.snapshot.Replace(variants)
	return nil
}

// Run refreshes on the configured interval until ctx is done.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.RefreshOnce(ctx); err != nil {
				r.logger.Printf("catalog refresh failed, keeping previous snapshot: %v", err)
			}
		}
	}
}
