package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func newProduct(name string, price float64, category *Category) Product {
	return Product{
		ID:       uuid.New(),
		Name:     name,
		Price:    decimal.NewFromFloat(price),
		Category: category,
	}
}

func categoryPtr(c Category) *Category { return &c }

func TestAddProductMergesExistingLine(t *testing.T) {
	beer := newProduct("Beer", 3.50, categoryPtr(CategoryDrink))

	items := Items{}.AddProduct(beer)
	items = items.AddProduct(beer)
	items = items.AddProduct(beer)

	if len(items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(items))
	}
	if items[0].Amount != 3 {
		t.Fatalf("expected amount 3, got %d", items[0].Amount)
	}
}

func TestAddProductKeepsInsertionOrder(t *testing.T) {
	beer := newProduct("Beer", 3.50, categoryPtr(CategoryDrink))
	pizza := newProduct("Pizza", 9.00, categoryPtr(CategoryFood))

	items := Items{}.AddProduct(beer).AddProduct(pizza).AddProduct(beer)

	if len(items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(items))
	}
	if items[0].Product.ID != beer.ID || items[1].Product.ID != pizza.ID {
		t.Fatal("insertion order not preserved")
	}
}

func TestSetAmountBelowOneRemovesLine(t *testing.T) {
	beer := newProduct("Beer", 3.50, categoryPtr(CategoryDrink))

	items := Items{}.AddProduct(beer)
	items = items.SetNotes(beer.ID, "no foam")
	items = items.SetAmount(beer.ID, 0)

	if len(items) != 0 {
		t.Fatalf("expected empty list, got %d lines", len(items))
	}

	// Re-adding starts fresh: amount 1, no resumed notes.
	items = items.AddProduct(beer)
	if items[0].Amount != 1 {
		t.Fatalf("expected amount 1 after re-add, got %d", items[0].Amount)
	}
	if items[0].Notes != "" {
		t.Fatalf("expected empty notes after re-add, got %q", items[0].Notes)
	}
}

func TestSetAmountUpdatesValue(t *testing.T) {
	beer := newProduct("Beer", 3.50, categoryPtr(CategoryDrink))
	items := Items{}.AddProduct(beer).SetAmount(beer.ID, 5)

	if items[0].Amount != 5 {
		t.Fatalf("expected amount 5, got %d", items[0].Amount)
	}
}

func TestTotalIsDerivedFromLines(t *testing.T) {
	beer := newProduct("Beer", 3.50, categoryPtr(CategoryDrink))
	pizza := newProduct("Pizza", 9.00, categoryPtr(CategoryFood))

	items := Items{
		{Product: beer, Amount: 2},
		{Product: pizza, Amount: 1},
	}
	want := decimal.NewFromFloat(16.00)
	if !items.Total().Equal(want) {
		t.Fatalf("expected total %s, got %s", want, items.Total())
	}

	// Changing an amount moves the total by exactly (new-old)*price.
	before := items.Total()
	items = items.SetAmount(beer.ID, 4)
	delta := items.Total().Sub(before)
	if !delta.Equal(beer.Price.Mul(decimal.NewFromInt(2))) {
		t.Fatalf("expected delta 2*price, got %s", delta)
	}
}

func TestHasFoodAndHasDrinks(t *testing.T) {
	beer := newProduct("Beer", 3.50, categoryPtr(CategoryDrink))
	pizza := newProduct("Pizza", 9.00, categoryPtr(CategoryFood))
	bread := newProduct("Bread", 1.00, nil) // untyped: both stations

	tests := []struct {
		name               string
		items              Items
		hasFood, hasDrinks bool
	}{
		{"only drinks", Items{{Product: beer, Amount: 1}}, false, true},
		{"only food", Items{{Product: pizza, Amount: 1}}, true, false},
		{"untyped counts for both", Items{{Product: bread, Amount: 1}}, true, true},
		{"mixed", Items{{Product: beer, Amount: 1}, {Product: pizza, Amount: 1}}, true, true},
		{"empty", Items{}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.items.HasFood(); got != tt.hasFood {
				t.Errorf("HasFood = %v, want %v", got, tt.hasFood)
			}
			if got := tt.items.HasDrinks(); got != tt.hasDrinks {
				t.Errorf("HasDrinks = %v, want %v", got, tt.hasDrinks)
			}
		})
	}
}
