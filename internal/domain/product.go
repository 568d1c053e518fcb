package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category is a product's station affinity. A product without a category
// is relevant to both the kitchen and the bar.
type Category string

const (
	CategoryFood  Category = "food"
	CategoryDrink Category = "drink"
)

func (c Category) Valid() bool { return c == CategoryFood || c == CategoryDrink }

type Product struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Category *Category       `json:"type,omitempty"`
	Color    string          `json:"color,omitempty"`
	Emoji    string          `json:"emoji,omitempty"`
}

// IsFood reports whether the product belongs on the kitchen's station.
// Untyped products belong to every station.
func (p Product) IsFood() bool { return p.Category == nil || *p.Category == CategoryFood }

// IsDrink reports whether the product belongs on the bar's station.
func (p Product) IsDrink() bool { return p.Category == nil || *p.Category == CategoryDrink }
