package domain

import "fmt"

// Role determines a staff member's default view filter and which
// notifications they receive.
type Role string

const (
	RoleWaiter Role = "waiter"
	RoleCook   Role = "cook"
	RoleBarman Role = "barman"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleWaiter, RoleCook, RoleBarman:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Tab is the list filter. Waiters may switch it freely; cooks and barmen
// live on their station's tab.
type Tab string

const (
	TabAll   Tab = "all"
	TabFood  Tab = "food"
	TabDrink Tab = "drink"
)

func ParseTab(s string) (Tab, error) {
	switch Tab(s) {
	case TabAll, TabFood, TabDrink:
		return Tab(s), nil
	}
	return "", fmt.Errorf("unknown tab %q", s)
}

func (r Role) DefaultTab() Tab {
	switch r {
	case RoleCook:
		return TabFood
	case RoleBarman:
		return TabDrink
	default:
		return TabAll
	}
}

// FilterOrders keeps the orders relevant to a tab: the food tab keeps
// orders with at least one kitchen-relevant item, the drink tab at least
// one bar-relevant item. Untyped items are relevant to both.
func FilterOrders(orders []Order, tab Tab) []Order {
	if tab == TabAll {
		return append([]Order(nil), orders...)
	}
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		switch tab {
		case TabFood:
			if o.Items.HasFood() {
				out = append(out, o)
			}
		case TabDrink:
			if o.Items.HasDrinks() {
				out = append(out, o)
			}
		}
	}
	return out
}

// ItemsForRole is the line subset a staff member works from: cooks see
// food and untyped lines, barmen drink and untyped lines, waiters all.
func ItemsForRole(o Order, r Role) Items {
	switch r {
	case RoleCook:
		out := make(Items, 0, len(o.Items))
		for _, it := range o.Items {
			if it.Product.IsFood() {
				out = append(out, it)
			}
		}
		return out
	case RoleBarman:
		out := make(Items, 0, len(o.Items))
		for _, it := range o.Items {
			if it.Product.IsDrink() {
				out = append(out, it)
			}
		}
		return out
	default:
		return append(Items(nil), o.Items...)
	}
}
