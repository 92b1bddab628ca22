package listview

import (
	"container/list"
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Key identifies one cached page of one resource.
type Key struct {
	Resource string
	Page     int
	PageSize int
	Search   string
}

func (k Key) String() string {
	return fmt.Sprintf("%s?page=%d&pageSize=%d&q=%s", k.Resource, k.Page, k.PageSize, k.Search)
}

type entry struct {
	key   Key
	value any
	gen   uint64
}

// Cache is the list cache. Entries are LRU-bounded; freshness is tracked
// with a per-resource generation counter so that invalidating a resource is
// O(1) and marks every page of it stale at once. Stale entries are still
// served while a refetch is pending.
type Cache struct {
	mu       sync.Mutex
	capacity int
	entries  map[Key]*list.Element
	lruList  *list.List
	gens     map[string]uint64
	last     map[string]*entry

	group singleflight.Group
}

func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = 64
	}
	return &Cache{
		capacity: capacity,
		entries:  make(map[Key]*list.Element),
		lruList:  list.New(),
		gens:     make(map[string]uint64),
		last:     make(map[string]*entry),
	}
}

// Fetch returns the cached value when the entry is fresh, otherwise runs fn
// exactly once per key across concurrent callers and stores the result.
// The stored generation is sampled before fn runs: an invalidation racing
// with the fetch leaves the entry stale, forcing the next Fetch to hit the
// server again.
func (c *Cache) Fetch(ctx context.Context, key Key, fn func(context.Context) (any, error)) (any, error) {
	if value, ok := c.fresh(key); ok {
		return value, nil
	}

	value, err, _ := c.group.Do(key.String(), func() (any, error) {
		if value, ok := c.fresh(key); ok {
			return value, nil
		}

		c.mu.Lock()
		gen := c.gens[key.Resource]
		c.mu.Unlock()

		value, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		c.store(key, value, gen)
		return value, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Peek returns the cached value for a key regardless of freshness, plus
// whether the entry is stale.
func (c *Cache) Peek(key Key) (value any, stale, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, found := c.entries[key]
	if !found {
		return nil, false, false
	}
	c.lruList.MoveToFront(elem)
	e := elem.Value.(*entry)
	return e.value, e.gen != c.gens[key.Resource], true
}

// Previous returns the most recently resolved value for a resource, any
// key. This is what keeps the old page on screen while a new page, size or
// search fetch is in flight.
func (c *Cache) Previous(resource string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.last[resource]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// Invalidate marks every cached page of a resource stale. Values remain
// servable until their refetch resolves.
func (c *Cache) Invalidate(resource string) {
	c.mu.Lock()
	c.gens[resource]++
	c.mu.Unlock()
}

func (c *Cache) fresh(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, found := c.entries[key]
	if !found {
		return nil, false
	}
	e := elem.Value.(*entry)
	if e.gen != c.gens[key.Resource] {
		return nil, false
	}
	c.lruList.MoveToFront(elem)
	return e.value, true
}

func (c *Cache) store(key Key, value any, gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry{key: key, value: value, gen: gen}
	c.last[key.Resource] = e

	if elem, found := c.entries[key]; found {
		c.lruList.MoveToFront(elem)
		elem.Value = e
		return
	}

	elem := c.lruList.PushFront(e)
	c.entries[key] = elem

	if c.lruList.Len() > c.capacity {
		c.evict()
	}
}

func (c *Cache) evict() {
	elem := c.lruList.Back()
	if elem != nil {
		c.lruList.Remove(elem)
		delete(c.entries, elem.Value.(*entry).key)
	}
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lruList.Len()
}
