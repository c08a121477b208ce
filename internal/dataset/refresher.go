package dataset

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrEmptyDataset is returned by Refresh when a load succeeded but produced
// no chart entries, for example a header-only file.
var ErrEmptyDataset = errors.New("dataset has no chart entries")

// TableLoader produces a fresh Table. *Loader implements it.
type TableLoader interface {
	Load(ctx context.Context) (*Table, error)
}

// RefresherOptions configures a Refresher.
type RefresherOptions struct {
	// Interval between reloads. Zero or negative disables periodic reloads.
	Interval time.Duration

	// OnRefresh, if set, is called after every load attempt.
	OnRefresh func(table *Table, err error)

	Logger *slog.Logger
}

// Refresher keeps a Store filled with the latest dataset.
//
// Concurrent Refresh calls share a single load. A failed load, or one that
// yields no rows, leaves the previous table in place.
type Refresher struct {
	loader    TableLoader
	store     *Store
	interval  time.Duration
	onRefresh func(*Table, error)
	logger    *slog.Logger
	group     singleflight.Group
}

// NewRefresher creates a Refresher publishing to store.
func NewRefresher(loader TableLoader, store *Store, opts RefresherOptions) *Refresher {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Refresher{
		loader:    loader,
		store:     store,
		interval:  opts.Interval,
		onRefresh: opts.OnRefresh,
		logger:    opts.Logger,
	}
}

// Refresh loads the dataset and publishes it.
func (r *Refresher) Refresh(ctx context.Context) (*Table, error) {
	v, err, shared := r.group.Do("refresh", func() (any, error) {
		start := time.Now()
		table, err := r.loader.Load(ctx)
		if err == nil && table.Len() == 0 {
			table, err = nil, ErrEmptyDataset
		}
		if r.onRefresh != nil {
			r.onRefresh(table, err)
		}
		if err != nil {
			r.logger.Error("dataset refresh failed", "error", err, "kept_version", r.store.Snapshot().versionTag())
			return nil, err
		}
		old := r.store.Swap(table)
		r.logger.Info("dataset refreshed",
			"rows", table.Len(),
			"version", table.Version,
			"previous", old.versionTag(),
			"duration", time.Since(start),
		)
		return table, nil
	})
	if shared {
		r.logger.Debug("dataset refresh coalesced")
	}
	if err != nil {
		return nil, err
	}
	return v.(*Table), nil
}

// Run refreshes once, then on every interval until ctx is done.
func (r *Refresher) Run(ctx context.Context) error {
	r.Refresh(ctx)
	if r.interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}

func (t *Table) versionTag() string {
	if t == nil {
		return ""
	}
	return t.Version
}
