package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/warelot/stockledger/internal/domain"
)

// countingDirectory records how many lookups actually hit the backing
// directory.
type countingDirectory struct {
	lookups atomic.Int64
	items   map[string]domain.Item
}

func (d *countingDirectory) Lookup(_ context.Context, itemName string) (domain.Item, bool, error) {
	d.lookups.Add(1)

	item, ok := d.items[itemName]

	return item, ok, nil
}

func newCountingDirectory() *countingDirectory {
	return &countingDirectory{
		items: map[string]domain.Item{
			"Widget": {Name: "Widget", Code: "WDG", Unit: "PCS", Active: true},
		},
	}
}

func TestDirectoryCache_CachesPositiveHits(t *testing.T) {
	dir := newCountingDirectory()
	cache := NewDirectoryCache(dir, time.Minute, time.Minute, nil)
	defer cache.Close()

	ctx := context.Background()

	for range 5 {
		item, err := cache.Resolve(ctx, "Widget")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if item.Code != "WDG" {
			t.Fatalf("code = %q, want WDG", item.Code)
		}
	}

	if got := dir.lookups.Load(); got != 1 {
		t.Errorf("directory lookups = %d, want 1", got)
	}
}

func TestDirectoryCache_MissesNotCached(t *testing.T) {
	dir := newCountingDirectory()
	cache := NewDirectoryCache(dir, time.Minute, time.Minute, nil)
	defer cache.Close()

	ctx := context.Background()

	for range 3 {
		_, err := cache.Resolve(ctx, "Unknown")
		if !errors.Is(err, domain.ErrItemNotFound) {
			t.Fatalf("expected ErrItemNotFound, got %v", err)
		}
	}

	// Every miss must re-query the directory.
	if got := dir.lookups.Load(); got != 3 {
		t.Errorf("directory lookups = %d, want 3", got)
	}

	if cache.size() != 0 {
		t.Errorf("cache size = %d, want 0", cache.size())
	}
}

func TestDirectoryCache_TTLExpiry(t *testing.T) {
	dir := newCountingDirectory()
	cache := NewDirectoryCache(dir, 20*time.Millisecond, time.Hour, nil)
	defer cache.Close()

	ctx := context.Background()

	if _, err := cache.Resolve(ctx, "Widget"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(40 * time.Millisecond)

	if _, err := cache.Resolve(ctx, "Widget"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := dir.lookups.Load(); got != 2 {
		t.Errorf("directory lookups = %d, want 2 (expired entry re-queried)", got)
	}
}

func TestDirectoryCache_Invalidate(t *testing.T) {
	dir := newCountingDirectory()
	cache := NewDirectoryCache(dir, time.Minute, time.Minute, nil)
	defer cache.Close()

	ctx := context.Background()

	if _, err := cache.Resolve(ctx, "Widget"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cache.Invalidate("Widget")

	if _, err := cache.Resolve(ctx, "Widget"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := dir.lookups.Load(); got != 2 {
		t.Errorf("directory lookups = %d, want 2 after invalidation", got)
	}
}

func TestDirectoryCache_SweepPurgesExpired(t *testing.T) {
	dir := newCountingDirectory()
	cache := NewDirectoryCache(dir, 10*time.Millisecond, 20*time.Millisecond, nil)
	defer cache.Close()

	if _, err := cache.Resolve(context.Background(), "Widget"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cache.size() != 1 {
		t.Fatalf("cache size = %d, want 1", cache.size())
	}

	deadline := time.Now().Add(time.Second)
	for cache.size() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("sweep did not purge expired entry within a second")
		}

		time.Sleep(10 * time.Millisecond)
	}
}

func TestDirectoryCache_LookupErrorPropagates(t *testing.T) {
	wantErr := errors.New("directory offline")

	cache := NewDirectoryCache(failingDirectory{err: wantErr}, time.Minute, time.Minute, nil)
	defer cache.Close()

	_, err := cache.Resolve(context.Background(), "Widget")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped directory error, got %v", err)
	}
}

type failingDirectory struct {
	err error
}

func (d failingDirectory) Lookup(context.Context, string) (domain.Item, bool, error) {
	return domain.Item{}, false, d.err
}
