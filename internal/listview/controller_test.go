package listview

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/lmoraes94/verzel-admin/internal/models"
)

type fakeBackend struct {
	calls int
	rows  map[int][]string
	count int
	fail  bool
}

func (b *fakeBackend) fetch(_ context.Context, key Key) (*models.ListResult[string], error) {
	b.calls++
	if b.fail {
		return nil, errors.New("fetch failed")
	}
	return &models.ListResult[string]{Count: b.count, Rows: b.rows[key.Page]}, nil
}

func newTestController(b *fakeBackend) *Controller[string] {
	return NewController[string]("users", NewCache(16), b.fetch)
}

func TestControllerLoadAndStatus(t *testing.T) {
	backend := &fakeBackend{
		count: 12,
		rows:  map[int][]string{0: {"a", "b", "c", "d", "e"}},
	}
	ctrl := newTestController(backend)

	if ctrl.Status() != StatusLoading {
		t.Errorf("expected loading before first resolve, got %v", ctrl.Status())
	}

	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	if ctrl.Status() != StatusSuccess {
		t.Errorf("expected success, got %v", ctrl.Status())
	}
	data, stale := ctrl.Data()
	if data == nil || stale {
		t.Fatalf("expected fresh data, got data=%v stale=%v", data, stale)
	}
	if data.Count != 12 || len(data.Rows) != 5 {
		t.Errorf("unexpected result: %+v", data)
	}
	if ctrl.TotalPages() != 3 {
		t.Errorf("expected 3 total pages, got %d", ctrl.TotalPages())
	}
	if ctrl.CanPrev() {
		t.Error("prev must be disabled on page 0")
	}
	if !ctrl.CanNext() {
		t.Error("next must be enabled with 3 pages")
	}
}

func TestControllerStaleDataRetention(t *testing.T) {
	backend := &fakeBackend{
		count: 12,
		rows:  map[int][]string{0: {"a"}, 1: {"f"}},
	}
	ctrl := newTestController(backend)

	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	// Moving to another page keeps the old rows visible, marked stale,
	// until the new fetch resolves.
	ctrl.NextPage()
	data, stale := ctrl.Data()
	if data == nil || !stale {
		t.Fatalf("expected retained stale data, got data=%v stale=%v", data, stale)
	}
	if data.Rows[0] != "a" {
		t.Errorf("expected previous page rows, got %v", data.Rows)
	}
	if ctrl.Status() != StatusSuccess {
		t.Errorf("retained data must keep the view in success, got %v", ctrl.Status())
	}

	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("second load: %v", err)
	}
	data, stale = ctrl.Data()
	if stale {
		t.Error("expected fresh data after resolve")
	}
	if data.Rows[0] != "f" {
		t.Errorf("expected page 1 rows, got %v", data.Rows)
	}
}

func TestControllerMutationInvalidation(t *testing.T) {
	backend := &fakeBackend{count: 1, rows: map[int][]string{0: {"before"}}}
	ctrl := newTestController(backend)

	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if backend.calls != 1 {
		t.Fatalf("expected 1 call, got %d", backend.calls)
	}

	// Without a mutation, reloading the same key is served from cache.
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if backend.calls != 1 {
		t.Errorf("expected cached reload, got %d calls", backend.calls)
	}

	// After a successful mutation the list must reflect the change.
	backend.rows[0] = []string{"after"}
	ctrl.Invalidate()
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("post-mutation load: %v", err)
	}
	if backend.calls != 2 {
		t.Errorf("expected refetch after invalidation, got %d calls", backend.calls)
	}
	data, _ := ctrl.Data()
	if data.Rows[0] != "after" {
		t.Errorf("expected mutated rows, got %v", data.Rows)
	}
}

func TestControllerErrorState(t *testing.T) {
	backend := &fakeBackend{fail: true}
	ctrl := newTestController(backend)

	if err := ctrl.Load(context.Background()); err == nil {
		t.Fatal("expected load error")
	}
	if ctrl.Status() != StatusError {
		t.Errorf("expected error status, got %v", ctrl.Status())
	}
	if ctrl.Err() == nil {
		t.Error("expected Err to report the failure")
	}

	// Manual reload after the backend recovers.
	backend.fail = false
	backend.count = 1
	backend.rows = map[int][]string{0: {"ok"}}
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if ctrl.Status() != StatusSuccess || ctrl.Err() != nil {
		t.Errorf("expected recovery, got status=%v err=%v", ctrl.Status(), ctrl.Err())
	}
}

func TestControllerPageSizeAndSearchResetPage(t *testing.T) {
	pages := map[int][]string{}
	for p := 0; p < 10; p++ {
		pages[p] = []string{fmt.Sprintf("row-%d", p)}
	}
	backend := &fakeBackend{count: 50, rows: pages}
	ctrl := newTestController(backend)

	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	ctrl.SetPage(3)
	if ctrl.Query().Page != 3 {
		t.Fatalf("expected page 3, got %d", ctrl.Query().Page)
	}
	ctrl.CyclePageSize()
	if q := ctrl.Query(); q.Page != 0 || q.PageSize != 10 {
		t.Errorf("expected page reset and size 10, got %+v", q)
	}

	ctrl.SetPage(2)
	ctrl.SetSearch("onix")
	if q := ctrl.Query(); q.Page != 0 || q.Search != "onix" {
		t.Errorf("expected page reset on search, got %+v", q)
	}
}

func TestControllerSupersededLoadClearsLoading(t *testing.T) {
	cache := NewCache(16)
	var ctrl *Controller[string]
	fetch := func(_ context.Context, key Key) (*models.ListResult[string], error) {
		// Change the query while this fetch is still in flight.
		if key.Search == "" {
			ctrl.SetSearch("polo")
		}
		return &models.ListResult[string]{Count: 1, Rows: []string{"onix"}}, nil
	}
	ctrl = NewController[string]("cars", cache, fetch)

	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if ctrl.Loading() {
		t.Error("a superseded load must clear the loading flag")
	}
}

func TestControllerFreshInstanceServesLastResolved(t *testing.T) {
	cache := NewCache(16)
	backend := &fakeBackend{count: 1, rows: map[int][]string{0: {"a"}}}

	first := NewController[string]("users", cache, backend.fetch)
	if err := first.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	// A second controller for the same resource starts from the cache's
	// last value, marked stale, instead of an empty screen.
	second := NewController[string]("users", cache, backend.fetch)
	data, stale := second.Data()
	if data == nil || !stale {
		t.Fatalf("expected retained stale data, got data=%v stale=%v", data, stale)
	}
	if data.Rows[0] != "a" {
		t.Errorf("expected cached rows, got %v", data.Rows)
	}
}

func TestControllerLastAndFirstPage(t *testing.T) {
	backend := &fakeBackend{count: 12, rows: map[int][]string{0: {"a"}, 2: {"z"}}}
	ctrl := newTestController(backend)

	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	ctrl.LastPage()
	if ctrl.Query().Page != 2 {
		t.Errorf("expected last page 2, got %d", ctrl.Query().Page)
	}
	if ctrl.CanNext() {
		t.Error("next must be disabled on the last page")
	}

	ctrl.FirstPage()
	if ctrl.Query().Page != 0 {
		t.Errorf("expected first page, got %d", ctrl.Query().Page)
	}
}
