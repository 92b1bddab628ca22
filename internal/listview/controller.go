package listview

import (
	"context"
	"sync"

	"github.com/lmoraes94/verzel-admin/internal/models"
)

// Status is the render state of a list page.
type Status int

const (
	StatusLoading Status = iota
	StatusError
	StatusSuccess
)

type FetchFunc[T any] func(ctx context.Context, key Key) (*models.ListResult[T], error)

// Controller owns the query state of one resource list and resolves it
// through the shared cache. While a changed query is in flight the
// previously resolved result keeps rendering (stale-data retention).
type Controller[T any] struct {
	resource string
	cache    *Cache
	fetch    FetchFunc[T]

	mu      sync.Mutex
	query   Query
	data    *models.ListResult[T]
	dataKey Key
	err     error
	errKey  Key
	loading bool
}

func NewController[T any](resource string, cache *Cache, fetch FetchFunc[T]) *Controller[T] {
	return &Controller[T]{
		resource: resource,
		cache:    cache,
		fetch:    fetch,
		query:    DefaultQuery(),
	}
}

func (c *Controller[T]) Resource() string {
	return c.resource
}

func (c *Controller[T]) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

func (c *Controller[T]) Key() Key {
	return c.Query().Key(c.resource)
}

func (c *Controller[T]) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query.SetPage(page)
}

func (c *Controller[T]) NextPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.query.HasNext(c.countLocked()) {
		c.query.SetPage(c.query.Page + 1)
	}
}

func (c *Controller[T]) PrevPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.query.HasPrev() {
		c.query.SetPage(c.query.Page - 1)
	}
}

func (c *Controller[T]) FirstPage() {
	c.SetPage(0)
}

func (c *Controller[T]) LastPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if total := TotalPages(c.countLocked(), c.query.PageSize); total > 0 {
		c.query.SetPage(total - 1)
	}
}

func (c *Controller[T]) SetPageSize(size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query.SetPageSize(size)
}

// CyclePageSize advances to the next size in PageSizes, resetting the page.
func (c *Controller[T]) CyclePageSize() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query.SetPageSize(c.query.NextPageSize())
}

func (c *Controller[T]) SetSearch(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query.SetSearch(text)
}

// Load resolves the current key through the cache, blocking until the
// fetch settles. A result for a key the controller has already moved past
// is discarded.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	key := c.query.Key(c.resource)
	c.loading = true
	c.mu.Unlock()

	value, err := c.cache.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return c.fetch(ctx, key)
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false

	if key != c.query.Key(c.resource) {
		// Superseded while in flight.
		return nil
	}

	if err != nil {
		c.err = err
		c.errKey = key
		return err
	}
	c.data = value.(*models.ListResult[T])
	c.dataKey = key
	c.err = nil
	return nil
}

// Data returns what should render right now: the current key's result when
// resolved, otherwise the previously resolved result marked stale. A fresh
// controller whose resource was already resolved elsewhere starts from the
// cache's last value instead of an empty screen.
func (c *Controller[T]) Data() (result *models.ListResult[T], stale bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.data == nil {
		if prev, ok := c.cache.Previous(c.resource); ok {
			if res, ok := prev.(*models.ListResult[T]); ok {
				return res, true
			}
		}
		return nil, false
	}
	return c.data, c.dataKey != c.query.Key(c.resource)
}

// Err reports the fetch error for the current key, nil otherwise.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil && c.errKey == c.query.Key(c.resource) {
		return c.err
	}
	return nil
}

func (c *Controller[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Status derives the render state: error for the current key wins, then
// success when any data is available (fresh or retained), else loading.
func (c *Controller[T]) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.err != nil && c.errKey == c.query.Key(c.resource) {
		return StatusError
	}
	if c.data != nil {
		return StatusSuccess
	}
	return StatusLoading
}

// Invalidate marks all cached pages of this resource stale; the next Load
// refetches from the server. Called after every successful mutation.
func (c *Controller[T]) Invalidate() {
	c.cache.Invalidate(c.resource)
}

// TotalPages derives from the last resolved count and the current size.
func (c *Controller[T]) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return TotalPages(c.countLocked(), c.query.PageSize)
}

func (c *Controller[T]) CanPrev() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query.HasPrev()
}

func (c *Controller[T]) CanNext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query.HasNext(c.countLocked())
}

func (c *Controller[T]) countLocked() int {
	if c.data == nil {
		return 0
	}
	return c.data.Count
}
