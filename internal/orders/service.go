package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"comandero/internal/domain"
	"comandero/internal/logger"
)

var (
	ErrEmptyTable       = errors.New("table number is required")
	ErrNoItems          = errors.New("at least one item is required")
	ErrInvalidAmount    = errors.New("item amount must be at least 1")
	ErrDuplicateProduct = errors.New("duplicate product in item list")
)

// Publisher pushes change events onto the feed every connected device
// listens to. Publish failures are logged, never surfaced: the write
// already committed and clients degrade to stale-until-refresh.
type Publisher interface {
	PublishChange(ctx context.Context, ev domain.ChangeEvent) error
}

type ServiceInterface interface {
	ActiveOrders(ctx context.Context) ([]domain.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Order, error)
	Create(ctx context.Context, tableNumber, createdBy string, items domain.Items) (domain.Order, error)
	UpdateItems(ctx context.Context, id uuid.UUID, items domain.Items) (domain.Order, error)
	Update(ctx context.Context, id uuid.UUID, p Patch) (domain.Order, error)
	MarkDrinksReady(ctx context.Context, id uuid.UUID) error
	MarkFoodReady(ctx context.Context, id uuid.UUID) error
	MarkPaid(ctx context.Context, id uuid.UUID) error
	MarkCancelled(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo RepositoryInterface
	pub  Publisher
	lg   *logger.Logger
}

func NewService(repo RepositoryInterface, pub Publisher, lg *logger.Logger) *Service {
	return &Service{repo: repo, pub: pub, lg: lg}
}

func validateItems(items domain.Items) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	seen := make(map[uuid.UUID]bool, len(items))
	for _, it := range items {
		if it.Amount < 1 {
			return fmt.Errorf("%w: %s", ErrInvalidAmount, it.Product.Name)
		}
		if seen[it.Product.ID] {
			return fmt.Errorf("%w: %s", ErrDuplicateProduct, it.Product.Name)
		}
		seen[it.Product.ID] = true
	}
	return nil
}

func (s *Service) ActiveOrders(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ActiveOrders(ctx)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, tableNumber, createdBy string, items domain.Items) (domain.Order, error) {
	if strings.TrimSpace(tableNumber) == "" {
		return domain.Order{}, ErrEmptyTable
	}
	if err := validateItems(items); err != nil {
		return domain.Order{}, err
	}

	created, err := s.repo.Create(ctx, domain.Order{
		ID:          uuid.New(),
		TableNumber: tableNumber,
		CreatedBy:   createdBy,
		Items:       items,
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	s.lg.Info("order_created", map[string]any{
		"order_id": created.ID.String(),
		"table":    created.TableNumber,
		"by":       created.CreatedBy,
		"total":    created.Total().String(),
	})
	s.publish(ctx, domain.ChangeEvent{Type: domain.ChangeInsert, New: &created})
	return created, nil
}

// UpdateItems replaces the order's item list. Read-modify-write at
// whole-list granularity; the later of two concurrent edits wins.
func (s *Service) UpdateItems(ctx context.Context, id uuid.UUID, items domain.Items) (domain.Order, error) {
	if err := validateItems(items); err != nil {
		return domain.Order{}, err
	}
	old, updated, err := s.repo.UpdateItems(ctx, id, items)
	if err != nil {
		return domain.Order{}, fmt.Errorf("update items: %w", err)
	}

	s.lg.Info("order_items_updated", map[string]any{
		"order_id": id.String(),
		"lines":    len(items),
		"total":    updated.Total().String(),
	})
	s.publish(ctx, domain.ChangeEvent{Type: domain.ChangeUpdate, Old: &old, New: &updated})
	return updated, nil
}

// Update applies a partial patch to any subset of the item list and
// status timestamps. Administrative path that bypasses the state
// machine; lifecycle transitions go through the Mark methods.
func (s *Service) Update(ctx context.Context, id uuid.UUID, p Patch) (domain.Order, error) {
	if p.Items != nil {
		if err := validateItems(*p.Items); err != nil {
			return domain.Order{}, err
		}
	}
	old, updated, err := s.repo.Update(ctx, id, p)
	if err != nil {
		return domain.Order{}, fmt.Errorf("update order: %w", err)
	}

	s.lg.Info("order_patched", map[string]any{
		"order_id": id.String(),
		"status":   string(domain.Classify(updated)),
	})
	s.publish(ctx, domain.ChangeEvent{Type: domain.ChangeUpdate, Old: &old, New: &updated})
	return updated, nil
}

func (s *Service) MarkDrinksReady(ctx context.Context, id uuid.UUID) error {
	return s.mark(ctx, id, domain.EventDrinksReady)
}

func (s *Service) MarkFoodReady(ctx context.Context, id uuid.UUID) error {
	return s.mark(ctx, id, domain.EventFoodReady)
}

func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID) error {
	return s.mark(ctx, id, domain.EventPaid)
}

func (s *Service) MarkCancelled(ctx context.Context, id uuid.UUID) error {
	return s.mark(ctx, id, domain.EventCancelled)
}

func (s *Service) mark(ctx context.Context, id uuid.UUID, kind domain.EventKind) error {
	old, updated, changed, err := s.repo.ApplyEvent(ctx, id, kind)
	if err != nil {
		return fmt.Errorf("mark %s: %w", kind, err)
	}
	if !changed {
		// Already stamped; keep the original timestamp and stay silent.
		return nil
	}

	s.lg.Info("order_status_changed", map[string]any{
		"order_id": id.String(),
		"event":    string(kind),
		"status":   string(domain.Classify(updated)),
	})
	s.publish(ctx, domain.ChangeEvent{Type: domain.ChangeUpdate, Old: &old, New: &updated})
	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	old, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}

	s.lg.Info("order_deleted", map[string]any{"order_id": id.String()})
	s.publish(ctx, domain.ChangeEvent{Type: domain.ChangeDelete, Old: &old})
	return nil
}

func (s *Service) publish(ctx context.Context, ev domain.ChangeEvent) {
	if err := s.pub.PublishChange(ctx, ev); err != nil {
		s.lg.Error("change_publish_failed", err, map[string]any{
			"order_id": ev.OrderID().String(),
			"type":     string(ev.Type),
		})
	}
}
