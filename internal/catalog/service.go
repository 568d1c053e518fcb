package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"comandero/internal/domain"
	"comandero/internal/logger"
)

var (
	ErrEmptyName     = errors.New("product name is required")
	ErrNegativePrice = errors.New("product price must not be negative")
	ErrBadCategory   = errors.New("product category must be food or drink")
)

// Service keeps the whole catalog in memory so search-as-you-type never
// needs a round trip. The set is refreshed after every write.
type Service struct {
	repo RepositoryInterface
	lg   *logger.Logger

	mu       sync.RWMutex
	products []domain.Product
}

func NewService(repo RepositoryInterface, lg *logger.Logger) *Service {
	return &Service{repo: repo, lg: lg}
}

// Refresh replaces the cached catalog. On failure the previous set stays.
func (s *Service) Refresh(ctx context.Context) error {
	products, err := s.repo.List(ctx)
	if err != nil {
		s.lg.Error("catalog_fetch_failed", err, nil)
		return fmt.Errorf("fetch products: %w", err)
	}
	s.mu.Lock()
	s.products = products
	s.mu.Unlock()
	return nil
}

func (s *Service) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Product(nil), s.products...)
}

// Search is a case-insensitive substring match over the cached catalog.
// An empty query returns everything.
func (s *Service) Search(query string) []domain.Product {
	all := s.Products()
	if query == "" {
		return all
	}
	needle := strings.ToLower(query)
	out := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out
}

func validate(p domain.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	if p.Category != nil && !p.Category.Valid() {
		return ErrBadCategory
	}
	return nil
}

func (s *Service) Create(ctx context.Context, p domain.Product) (uuid.UUID, error) {
	if err := validate(p); err != nil {
		return uuid.Nil, err
	}
	p.ID = uuid.New()
	if err := s.repo.Insert(ctx, p); err != nil {
		return uuid.Nil, err
	}
	s.lg.Info("product_created", map[string]any{"product_id": p.ID.String(), "name": p.Name})
	return p.ID, s.Refresh(ctx)
}

func (s *Service) Update(ctx context.Context, p domain.Product) error {
	if err := validate(p); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.lg.Info("product_updated", map[string]any{"product_id": p.ID.String(), "name": p.Name})
	return s.Refresh(ctx)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.lg.Info("product_deleted", map[string]any{"product_id": id.String()})
	return s.Refresh(ctx)
}
