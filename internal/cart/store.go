package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cesarmodas/storefront-cart/pkg/logger"
	"github.com/cesarmodas/storefront-cart/pkg/metrics"
	"github.com/shopspring/decimal"
)

// SnapshotStore mirrors the cart to durable storage. Save replaces the whole
// snapshot atomically; Load returns the stored sequence or an error the
// caller degrades to an empty cart.
type SnapshotStore interface {
	Load(ctx context.Context, key string) ([]LineItem, error)
	Save(ctx context.Context, key string, items []LineItem) error
}

// Renderer rebuilds every dependent view surface from the current items.
type Renderer interface {
	Render(items []LineItem)
}

// Store owns the in-memory cart for one session. All mutations go through
// its methods; each one persists the snapshot and triggers a full re-render
// before returning. The mutex gives the run-to-completion ordering the
// storefront page gets for free from its event loop.
type Store struct {
	mu        sync.Mutex
	key       string
	items     []LineItem
	snapshots SnapshotStore
	renderer  Renderer
	logg      *logger.Logger
	metrics   *metrics.CartMetrics
}

// StoreParams wires a cart store.
type StoreParams struct {
	Key       string
	Snapshots SnapshotStore
	Renderer  Renderer
	Logger    *logger.Logger
	Metrics   *metrics.CartMetrics
}

// NewStore builds a cart store for one session key.
func NewStore(params StoreParams) (*Store, error) {
	if strings.TrimSpace(params.Key) == "" {
		return nil, fmt.Errorf("snapshot key required")
	}
	if params.Snapshots == nil {
		return nil, fmt.Errorf("snapshot store required")
	}
	return &Store{
		key:       params.Key,
		snapshots: params.Snapshots,
		renderer:  params.Renderer,
		logg:      params.Logger,
		metrics:   params.Metrics,
	}, nil
}

// Restore seeds the cart from the persisted snapshot and renders the initial
// view. A missing or corrupt snapshot degrades to an empty cart; startup
// never fails because of it.
func (s *Store) Restore(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.snapshots.Load(ctx, s.key)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "snapshot_key", s.key), "cart snapshot unreadable, starting empty")
		}
		items = nil
	}
	s.items = items
	s.render(ctx)
}

// Add appends a new line with quantity 1, or bumps the quantity of the line
// already carrying this name. The unit price of a repeat add is ignored: the
// first-seen price stays, so a page re-render passing a different price
// cannot shift totals mid-session.
func (s *Store) Add(ctx context.Context, name string, unitPrice decimal.Decimal) {
	name = strings.TrimSpace(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.items {
		if s.items[i].Name == name {
			s.items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, LineItem{Name: name, UnitPrice: unitPrice, Quantity: 1})
	}

	s.commit(ctx, "add")
}

// ChangeQuantity applies delta to the line at index. A result of zero or
// below removes the line entirely. An out-of-range index is a no-op so a
// stale view reference cannot crash the cart.
func (s *Store) ChangeQuantity(ctx context.Context, index, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.items) {
		return
	}

	s.items[index].Quantity += delta
	if s.items[index].Quantity <= 0 {
		s.items = append(s.items[:index], s.items[index+1:]...)
	}

	s.commit(ctx, "change_quantity")
}

// Remove deletes the line at index; later lines shift down. Out-of-range is
// a no-op.
func (s *Store) Remove(ctx context.Context, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.items) {
		return
	}

	s.items = append(s.items[:index], s.items[index+1:]...)
	s.commit(ctx, "remove")
}

// Clear empties the cart unconditionally. Confirmation is the caller's job.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.commit(ctx, "clear")
}

// Items returns a copy of the current line items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyItems()
}

// Total recomputes the grand total from current state on every call.
func (s *Store) Total() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalOf(s.items)
}

// ItemCount sums the quantities across all lines.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return countOf(s.items)
}

// Len returns the number of distinct lines.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// commit persists the snapshot and rebuilds the views. Snapshot failures are
// logged and swallowed: the in-memory cart stays correct for the session.
// Callers must hold s.mu.
func (s *Store) commit(ctx context.Context, op string) {
	s.metrics.IncMutation(op)

	if err := s.snapshots.Save(ctx, s.key, s.copyItems()); err != nil {
		s.metrics.IncSnapshotFailure()
		if s.logg != nil {
			s.logg.Error(s.logg.WithField(ctx, "snapshot_key", s.key), "cart snapshot write failed", err)
		}
	}

	s.render(ctx)
}

// render invokes the full rebuild. A panicking renderer degrades one render,
// never the cart or its snapshot. Callers must hold s.mu.
func (s *Store) render(ctx context.Context) {
	if s.renderer == nil {
		return
	}

	items := s.copyItems()
	defer func() {
		if rec := recover(); rec != nil {
			s.metrics.IncRenderFailure()
			if s.logg != nil {
				s.logg.Error(ctx, "view rebuild panicked", fmt.Errorf("panic: %v", rec))
			}
		}
	}()
	s.renderer.Render(items)
}

func (s *Store) copyItems() []LineItem {
	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

func totalOf(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

func countOf(items []LineItem) int {
	count := 0
	for _, it := range items {
		count += it.Quantity
	}
	return count
}
