package listview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func testKey(page int) Key {
	return Key{Resource: "users", Page: page, PageSize: 5}
}

func TestFetchCachesFreshEntries(t *testing.T) {
	cache := NewCache(8)
	calls := 0

	fn := func(context.Context) (any, error) {
		calls++
		return "page-0", nil
	}

	for i := 0; i < 3; i++ {
		value, err := cache.Fetch(context.Background(), testKey(0), fn)
		if err != nil {
			t.Fatalf("fetch: %v", err)
		}
		if value != "page-0" {
			t.Errorf("unexpected value: %v", value)
		}
	}
	if calls != 1 {
		t.Errorf("expected a single upstream call for a fresh key, got %d", calls)
	}
}

func TestInvalidateForcesRefetch(t *testing.T) {
	cache := NewCache(8)
	calls := 0

	fn := func(context.Context) (any, error) {
		calls++
		return fmt.Sprintf("version-%d", calls), nil
	}

	if _, err := cache.Fetch(context.Background(), testKey(0), fn); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	cache.Invalidate("users")

	// Stale value stays peekable while the refetch has not resolved yet.
	value, stale, ok := cache.Peek(testKey(0))
	if !ok || !stale || value != "version-1" {
		t.Errorf("expected stale retained value, got value=%v stale=%v ok=%v", value, stale, ok)
	}

	value, err := cache.Fetch(context.Background(), testKey(0), fn)
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if value != "version-2" {
		t.Errorf("expected refetched value, got %v", value)
	}
	if calls != 2 {
		t.Errorf("expected 2 upstream calls after invalidation, got %d", calls)
	}

	// Invalidating one resource must not touch another.
	carsKey := Key{Resource: "cars", Page: 0, PageSize: 5}
	if _, err := cache.Fetch(context.Background(), carsKey, func(context.Context) (any, error) { return "cars-0", nil }); err != nil {
		t.Fatalf("cars fetch: %v", err)
	}
	cache.Invalidate("users")
	if _, stale, _ := cache.Peek(carsKey); stale {
		t.Error("invalidating users must not mark cars stale")
	}
}

func TestPreviousRetainsLastResolved(t *testing.T) {
	cache := NewCache(8)

	if _, err := cache.Fetch(context.Background(), testKey(0), func(context.Context) (any, error) { return "page-0", nil }); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	value, ok := cache.Previous("users")
	if !ok || value != "page-0" {
		t.Errorf("expected previous value page-0, got %v ok=%v", value, ok)
	}

	if _, err := cache.Fetch(context.Background(), testKey(1), func(context.Context) (any, error) { return "page-1", nil }); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	value, _ = cache.Previous("users")
	if value != "page-1" {
		t.Errorf("expected previous to follow the latest resolve, got %v", value)
	}

	if _, ok := cache.Previous("cars"); ok {
		t.Error("expected no previous value for an unfetched resource")
	}
}

func TestFetchErrorIsNotCached(t *testing.T) {
	cache := NewCache(8)
	calls := 0

	fn := func(context.Context) (any, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("boom")
		}
		return "recovered", nil
	}

	if _, err := cache.Fetch(context.Background(), testKey(0), fn); err == nil {
		t.Fatal("expected first fetch to fail")
	}
	value, err := cache.Fetch(context.Background(), testKey(0), fn)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if value != "recovered" {
		t.Errorf("unexpected value: %v", value)
	}
}

func TestConcurrentSameKeyFetchesShareOneFlight(t *testing.T) {
	cache := NewCache(8)

	var calls int32
	release := make(chan struct{})
	fn := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "shared", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := cache.Fetch(context.Background(), testKey(0), fn)
			if err != nil || value != "shared" {
				t.Errorf("fetch: value=%v err=%v", value, err)
			}
		}()
	}

	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected deduplicated flight, got %d upstream calls", got)
	}
}

func TestEvictionKeepsCapacity(t *testing.T) {
	cache := NewCache(2)

	for page := 0; page < 3; page++ {
		p := page
		if _, err := cache.Fetch(context.Background(), testKey(p), func(context.Context) (any, error) {
			return fmt.Sprintf("page-%d", p), nil
		}); err != nil {
			t.Fatalf("fetch: %v", err)
		}
	}

	if cache.Len() != 2 {
		t.Errorf("expected capacity bound of 2, got %d", cache.Len())
	}
	if _, _, ok := cache.Peek(testKey(0)); ok {
		t.Error("expected oldest entry evicted")
	}
	if _, _, ok := cache.Peek(testKey(2)); !ok {
		t.Error("expected newest entry retained")
	}
}
