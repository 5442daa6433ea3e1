// Package lock serializes stock-changing work per product.
package lock

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/renantorres0/smartcommerce/internal/domain"
)

// ErrBusy is returned when a key stays held past every retry.
var ErrBusy = errors.New("system busy, please try again later (lock)")

// Locker hands out exclusive, per-key locks.
type Locker interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// Key is the lock name used for a product's stock.
func Key(productID string) string { return "lock:inventory:" + productID }

// AcquireAll locks every key in sorted order, skipping duplicates, so two
// callers locking overlapping sets cannot deadlock. On failure nothing stays held.
func AcquireAll(ctx context.Context, l Locker, keys ...string) (func(), error) {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	releases := make([]func(), 0, len(sorted))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}
	for _, k := range sorted {
		rel, err := l.Acquire(ctx, k)
		if err != nil {
			releaseAll()
			return nil, busy(k, err)
		}
		releases = append(releases, rel)
	}
	return releaseAll, nil
}

// busy classifies a lock failure as a storage failure.
func busy(key string, err error) error {
	if errors.Is(err, domain.ErrStorageFailure) {
		return err
	}
	return domain.Storage(fmt.Sprintf("lock %s", key), err)
}
