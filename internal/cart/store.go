// Package cart maintains the client-side list of items a visitor intends to
// purchase. The in-memory state is authoritative for the session; the
// persisted snapshot is best-effort and rebuilt wholesale on load.
package cart

import (
	"context"
	"errors"
	"sync"

	pkgerrors "github.com/paylaterhq/storefront-core/pkg/errors"
	"github.com/paylaterhq/storefront-core/pkg/logger"
	"github.com/paylaterhq/storefront-core/pkg/storage"
	"github.com/paylaterhq/storefront-core/pkg/types"
)

// Item pairs a product snapshot with the intended quantity.
// Invariant: quantity >= 1, at most one Item per product id.
type Item struct {
	Product  types.ProductSnapshot `json:"product"`
	Quantity int                   `json:"quantity"`
}

// Store is the single process-wide cart. All mutations go through its
// methods; mutations are synchronous and immediately visible to readers.
type Store struct {
	mu    sync.Mutex
	items []Item

	kv   storage.Store
	key  string
	logg *logger.Logger
}

// NewStore wires the cart against the device storage port.
func NewStore(kv storage.Store, logg *logger.Logger) (*Store, error) {
	if kv == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "storage port required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Store{
		kv:   kv,
		key:  storage.KeyCart,
		logg: logg,
	}, nil
}

// Load rehydrates the cart wholesale from the persisted snapshot. A missing
// key yields an empty cart; a corrupt snapshot is dropped with a warning
// rather than blocking startup.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart snapshot unreadable, starting empty")
		}
		s.items = nil
		return
	}

	items, err := decodeSnapshot(raw)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "cart snapshot corrupt, starting empty")
		s.items = nil
		return
	}
	s.items = items
}

// Add puts qty units of the product in the cart. An existing entry for the
// same product id absorbs the quantity; there is no upper bound.
func (s *Store) Add(ctx context.Context, product types.ProductSnapshot, qty int) {
	if qty <= 0 {
		qty = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Product.ID == product.ID {
			s.items[i].Quantity += qty
			s.persistLocked(ctx)
			return
		}
	}
	s.items = append(s.items, Item{Product: product, Quantity: qty})
	s.persistLocked(ctx)
}

// Remove deletes the matching item. Absent ids are a silent no-op.
func (s *Store) Remove(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.persistLocked(ctx)
			return
		}
	}
}

// Increment raises the item's quantity by one. Absent ids are a no-op.
func (s *Store) Increment(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Product.ID == productID {
			s.items[i].Quantity++
			s.persistLocked(ctx)
			return
		}
	}
}

// Decrement lowers the item's quantity by one, floored at 1. It never
// removes the item; Remove is the only deletion path.
func (s *Store) Decrement(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].Product.ID == productID {
			if s.items[i].Quantity > 1 {
				s.items[i].Quantity--
				s.persistLocked(ctx)
			}
			return
		}
	}
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.persistLocked(ctx)
}

// SetItems replaces the collection wholesale, e.g. when reconciling with a
// server-side cart. Entries with non-positive quantities are normalized to 1
// and duplicate product ids are merged so the one-item-per-product invariant
// holds no matter what the caller hands in.
func (s *Store) SetItems(ctx context.Context, items []Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = mergeItems(items)
	s.persistLocked(ctx)
}

// Items returns a copy of the collection in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Count is the sum of quantities, derived on read.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// Total is the sum of quantity times unit price in cents, derived on read.
func (s *Store) Total() types.Money {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, item := range s.items {
		total += int64(item.Quantity) * item.Product.PriceCents
	}
	return types.Money(total)
}

// persistLocked writes the full snapshot. Failures are logged and swallowed;
// the in-memory state stays authoritative regardless.
func (s *Store) persistLocked(ctx context.Context) {
	raw, err := encodeSnapshot(s.items)
	if err != nil {
		s.logg.Error(ctx, "encoding cart snapshot", err)
		return
	}
	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "persisting cart snapshot")
	}
}
