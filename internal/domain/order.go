package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem is one line of an order. The product is a value snapshot:
// editing the catalog later never changes what was ordered.
type OrderItem struct {
	Product Product `json:"product"`
	Amount  int     `json:"amount"`
	Notes   string  `json:"notes,omitempty"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Amount)))
}

// Items is an order's line items in insertion order. At most one line per
// product id.
type Items []OrderItem

// AddProduct merges a product into the item list. An already present
// product gets its amount bumped; a new product starts a fresh line with
// amount 1 and no notes.
func (items Items) AddProduct(p Product) Items {
	for idx, it := range items {
		if it.Product.ID == p.ID {
			out := append(Items(nil), items...)
			out[idx].Amount++
			return out
		}
	}
	return append(append(Items(nil), items...), OrderItem{Product: p, Amount: 1})
}

// SetAmount changes a line's amount. Driving it below 1 removes the line
// entirely; a zero or negative amount is never kept.
func (items Items) SetAmount(productID uuid.UUID, amount int) Items {
	out := make(Items, 0, len(items))
	for _, it := range items {
		if it.Product.ID == productID {
			if amount < 1 {
				continue
			}
			it.Amount = amount
		}
		out = append(out, it)
	}
	return out
}

// SetNotes attaches free-text notes to the line for the given product.
func (items Items) SetNotes(productID uuid.UUID, notes string) Items {
	out := append(Items(nil), items...)
	for idx := range out {
		if out[idx].Product.ID == productID {
			out[idx].Notes = notes
		}
	}
	return out
}

// Total is the derived order total: sum of price times amount per line.
func (items Items) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// HasFood reports whether any line is relevant to the kitchen.
func (items Items) HasFood() bool {
	for _, it := range items {
		if it.Product.IsFood() {
			return true
		}
	}
	return false
}

// HasDrinks reports whether any line is relevant to the bar.
func (items Items) HasDrinks() bool {
	for _, it := range items {
		if it.Product.IsDrink() {
			return true
		}
	}
	return false
}

// Order is a table order. Lifecycle is encoded by the four optional event
// timestamps; each is set once and never cleared.
type Order struct {
	ID            uuid.UUID  `json:"id"`
	TableNumber   string     `json:"table_number"`
	CreatedBy     string     `json:"created_by"`
	Items         Items      `json:"items"`
	DrinksReadyAt *time.Time `json:"drinks_ready_at,omitempty"`
	FoodReadyAt   *time.Time `json:"food_ready_at,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (o Order) Total() decimal.Decimal { return o.Items.Total() }

// Active reports whether the order still belongs to the working set.
func (o Order) Active() bool { return o.PaidAt == nil && o.CancelledAt == nil }

// Closed reports whether the order reached a terminal state.
func (o Order) Closed() bool { return !o.Active() }
