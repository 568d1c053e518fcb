// Package sync holds a staff device's working copy of the active order
// set. The set is always replaced wholesale after a fetch, never patched
// field by field, so filters and FIFO ordering stay correct relative to
// every concurrently modified order.
package sync

import (
	"context"
	"fmt"
	stdsync "sync"

	"github.com/google/uuid"

	"comandero/internal/domain"
	"comandero/internal/logger"
	"comandero/internal/orders"
)

// Store owns the active order slice. Every mutation delegates to the
// order service and then re-fetches the whole active set; a failed fetch
// keeps the last-known-good set and records the error.
type Store struct {
	svc orders.ServiceInterface
	lg  *logger.Logger

	mu       stdsync.RWMutex
	orders   []domain.Order
	filtered []domain.Order
	tab      domain.Tab
	lastErr  error
}

func NewStore(svc orders.ServiceInterface, lg *logger.Logger) *Store {
	return &Store{svc: svc, lg: lg, tab: domain.TabAll}
}

// Refresh fetches the active set and reapplies the current tab.
func (s *Store) Refresh(ctx context.Context) error {
	active, err := s.svc.ActiveOrders(ctx)
	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
		s.lg.Error("orders_fetch_failed", err, nil)
		return fmt.Errorf("fetch active orders: %w", err)
	}

	s.mu.Lock()
	s.orders = active
	s.filtered = domain.FilterOrders(active, s.tab)
	s.lastErr = nil
	s.mu.Unlock()
	return nil
}

// SetTab switches the filter tab and reapplies it to the held set.
func (s *Store) SetTab(tab domain.Tab) {
	s.mu.Lock()
	s.tab = tab
	s.filtered = domain.FilterOrders(s.orders, tab)
	s.mu.Unlock()
}

func (s *Store) Tab() domain.Tab {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tab
}

// Orders is the full active set, oldest first.
func (s *Store) Orders() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Order(nil), s.orders...)
}

// Filtered is the active set under the current tab.
func (s *Store) Filtered() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Order(nil), s.filtered...)
}

// Err is the error state of the last refresh, nil when in sync.
func (s *Store) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *Store) CreateOrder(ctx context.Context, tableNumber, createdBy string, items domain.Items) (uuid.UUID, error) {
	created, err := s.svc.Create(ctx, tableNumber, createdBy, items)
	if err != nil {
		return uuid.Nil, err
	}
	_ = s.Refresh(ctx)
	return created.ID, nil
}

func (s *Store) UpdateItems(ctx context.Context, id uuid.UUID, items domain.Items) error {
	if _, err := s.svc.UpdateItems(ctx, id, items); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *Store) UpdateOrder(ctx context.Context, id uuid.UUID, p orders.Patch) error {
	if _, err := s.svc.Update(ctx, id, p); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *Store) MarkDrinksReady(ctx context.Context, id uuid.UUID) error {
	return s.mark(ctx, id, s.svc.MarkDrinksReady)
}

func (s *Store) MarkFoodReady(ctx context.Context, id uuid.UUID) error {
	return s.mark(ctx, id, s.svc.MarkFoodReady)
}

func (s *Store) MarkPaid(ctx context.Context, id uuid.UUID) error {
	return s.mark(ctx, id, s.svc.MarkPaid)
}

func (s *Store) MarkCancelled(ctx context.Context, id uuid.UUID) error {
	return s.mark(ctx, id, s.svc.MarkCancelled)
}

func (s *Store) mark(ctx context.Context, id uuid.UUID, transition func(context.Context, uuid.UUID) error) error {
	if err := transition(ctx, id); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

func (s *Store) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if err := s.svc.Delete(ctx, id); err != nil {
		return err
	}
	return s.Refresh(ctx)
}
