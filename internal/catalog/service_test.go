package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"comandero/internal/domain"
	"comandero/internal/logger"
)

type fakeRepo struct {
	products map[uuid.UUID]domain.Product
	failList error
}

func newFakeRepo() *fakeRepo { return &fakeRepo{products: make(map[uuid.UUID]domain.Product)} }

func (f *fakeRepo) List(context.Context) ([]domain.Product, error) {
	if f.failList != nil {
		return nil, f.failList
	}
	out := make([]domain.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return domain.Product{}, ErrNotFound
	}
	return p, nil
}

func (f *fakeRepo) Insert(_ context.Context, p domain.Product) error {
	f.products[p.ID] = p
	return nil
}

func (f *fakeRepo) Update(_ context.Context, p domain.Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return ErrNotFound
	}
	f.products[p.ID] = p
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.products[id]; !ok {
		return ErrNotFound
	}
	delete(f.products, id)
	return nil
}

func newTestService(t *testing.T, names ...string) (*Service, *fakeRepo) {
	t.Helper()
	repo := newFakeRepo()
	svc := NewService(repo, logger.New("test"))
	for _, name := range names {
		if _, err := svc.Create(context.Background(), domain.Product{Name: name, Price: decimal.NewFromInt(2)}); err != nil {
			t.Fatal(err)
		}
	}
	return svc, repo
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	svc, _ := newTestService(t, "Caffè Latte", "Green Tea", "Iced Latte")

	tests := []struct {
		query string
		want  int
	}{
		{"latte", 2},
		{"LATTE", 2},
		{"tea", 1},
		{"espresso", 0},
		{"", 3},
	}
	for _, tt := range tests {
		if got := svc.Search(tt.query); len(got) != tt.want {
			t.Errorf("Search(%q) returned %d products, want %d", tt.query, len(got), tt.want)
		}
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, domain.Product{Name: "  ", Price: decimal.NewFromInt(1)}); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if _, err := svc.Create(ctx, domain.Product{Name: "Beer", Price: decimal.NewFromInt(-1)}); !errors.Is(err, ErrNegativePrice) {
		t.Fatalf("expected ErrNegativePrice, got %v", err)
	}
	bad := domain.Category("dessert")
	if _, err := svc.Create(ctx, domain.Product{Name: "Cake", Price: decimal.NewFromInt(4), Category: &bad}); !errors.Is(err, ErrBadCategory) {
		t.Fatalf("expected ErrBadCategory, got %v", err)
	}
}

func TestRefreshFailureKeepsCachedCatalog(t *testing.T) {
	svc, repo := newTestService(t, "Beer")

	repo.failList = errors.New("store unreachable")
	if err := svc.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if len(svc.Products()) != 1 {
		t.Fatal("failed refresh wiped the cached catalog")
	}
}

func TestDeleteRefreshesCache(t *testing.T) {
	svc, repo := newTestService(t, "Beer")
	var id uuid.UUID
	for pid := range repo.products {
		id = pid
	}

	if err := svc.Delete(context.Background(), id); err != nil {
		t.Fatal(err)
	}
	if len(svc.Products()) != 0 {
		t.Fatal("deleted product still cached")
	}
	if err := svc.Delete(context.Background(), id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
