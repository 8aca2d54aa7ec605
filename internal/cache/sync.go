package cache

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/hpvdash/internal/catalog"
)

// Getter downloads a URL.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Result is the outcome of one dataset in a Sync.
type Result struct {
	Dataset string
	URL     string
	Entry   *Entry
	Skipped bool
	Err     error
}

// SyncOptions controls Sync.
type SyncOptions struct {
	Workers int
	// Force refetches datasets that are already cached.
	Force bool
	Log   *zap.Logger
}

// Sync downloads datasets into the manifest directory with at most Workers
// concurrent requests, then saves the manifest. Per-dataset failures are reported
// in the results; the returned error is only set for context cancellation or a
// manifest write failure.
func Sync(ctx context.Context, m *Manifest, cat *catalog.Catalog, g Getter, datasets []catalog.Dataset, opt SyncOptions) ([]Result, error) {
	log := opt.Log
	if log == nil {
		log = zap.NewNop()
	}
	workers := opt.Workers
	if workers <= 0 {
		workers = 4
	}
	results := make([]Result, len(datasets))
	var mu sync.Mutex
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, d := range datasets {
		i, d := i, d
		url := cat.URL(d)
		if !opt.Force && m.Has(d.ID) {
			results[i] = Result{Dataset: d.ID, URL: url, Skipped: true}
			continue
		}
		eg.Go(func() error {
			data, err := g.Get(ctx, url)
			var e *Entry
			if err == nil {
				e, err = m.Put(d.ID, url, d.File, data)
			}
			mu.Lock()
			results[i] = Result{Dataset: d.ID, URL: url, Entry: e, Err: err}
			mu.Unlock()
			if err != nil {
				log.Warn("dataset fetch failed", zap.String("dataset", d.ID), zap.Error(err))
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return nil
			}
			log.Info("dataset fetched", zap.String("dataset", d.ID), zap.Int64("bytes", e.Size))
			return nil
		})
	}
	werr := eg.Wait()
	if err := m.Save(); err != nil {
		return results, fmt.Errorf("save manifest: %w", err)
	}
	return results, werr
}
