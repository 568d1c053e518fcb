package router

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"comandero/internal/domain"
	"comandero/internal/logger"
	"comandero/internal/notify"
	"comandero/internal/orders"
	"comandero/internal/sync"
)

type fakeNotifier struct{ played []notify.Kind }

func (f *fakeNotifier) Play(kind notify.Kind) { f.played = append(f.played, kind) }

// fakeOrders only serves ActiveOrders; the router never mutates.
type fakeOrders struct {
	orders  []domain.Order
	fetches int
}

func (f *fakeOrders) ActiveOrders(context.Context) ([]domain.Order, error) {
	f.fetches++
	return append([]domain.Order(nil), f.orders...), nil
}

func (f *fakeOrders) GetByID(context.Context, uuid.UUID) (domain.Order, error) {
	return domain.Order{}, orders.ErrNotFound
}

func (f *fakeOrders) Create(context.Context, string, string, domain.Items) (domain.Order, error) {
	return domain.Order{}, nil
}

func (f *fakeOrders) UpdateItems(context.Context, uuid.UUID, domain.Items) (domain.Order, error) {
	return domain.Order{}, nil
}

func (f *fakeOrders) Update(context.Context, uuid.UUID, orders.Patch) (domain.Order, error) {
	return domain.Order{}, nil
}

func (f *fakeOrders) MarkDrinksReady(context.Context, uuid.UUID) error { return nil }
func (f *fakeOrders) MarkFoodReady(context.Context, uuid.UUID) error   { return nil }
func (f *fakeOrders) MarkPaid(context.Context, uuid.UUID) error        { return nil }
func (f *fakeOrders) MarkCancelled(context.Context, uuid.UUID) error   { return nil }
func (f *fakeOrders) Delete(context.Context, uuid.UUID) error          { return nil }

func drinkItem() domain.OrderItem {
	c := domain.CategoryDrink
	return domain.OrderItem{
		Product: domain.Product{ID: uuid.New(), Name: "Beer", Price: decimal.NewFromInt(3), Category: &c},
		Amount:  1,
	}
}

func foodItem() domain.OrderItem {
	c := domain.CategoryFood
	return domain.OrderItem{
		Product: domain.Product{ID: uuid.New(), Name: "Pizza", Price: decimal.NewFromInt(9), Category: &c},
		Amount:  1,
	}
}

func untypedItem() domain.OrderItem {
	return domain.OrderItem{
		Product: domain.Product{ID: uuid.New(), Name: "Bread", Price: decimal.NewFromInt(1)},
		Amount:  1,
	}
}

func newListRouter(svc *fakeOrders) (*Router, *fakeNotifier) {
	lg := logger.New("test")
	notifier := &fakeNotifier{}
	store := sync.NewStore(svc, lg)
	return New(nil, store, notifier, lg), notifier
}

func marshal(t *testing.T, ev domain.ChangeEvent) []byte {
	t.Helper()
	b, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestInsertEventRoutesCompositionNotifications(t *testing.T) {
	tests := []struct {
		name  string
		items domain.Items
		want  []notify.Kind
	}{
		{"drinks only", domain.Items{drinkItem()}, []notify.Kind{notify.KindNewDrinks}},
		{"food only", domain.Items{foodItem()}, []notify.Kind{notify.KindNewFood}},
		{"mixed", domain.Items{drinkItem(), foodItem()}, []notify.Kind{notify.KindNewDrinks, notify.KindNewFood}},
		{"untyped hits both stations", domain.Items{untypedItem()}, []notify.Kind{notify.KindNewDrinks, notify.KindNewFood}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, notifier := newListRouter(&fakeOrders{})
			o := domain.Order{ID: uuid.New(), Items: tt.items}
			r.handle(context.Background(), marshal(t, domain.ChangeEvent{Type: domain.ChangeInsert, New: &o}))

			if len(notifier.played) != len(tt.want) {
				t.Fatalf("played %v, want %v", notifier.played, tt.want)
			}
			for i, kind := range tt.want {
				if notifier.played[i] != kind {
					t.Fatalf("played %v, want %v", notifier.played, tt.want)
				}
			}
		})
	}
}

func TestFoodReadyEdgeNotifiesOnce(t *testing.T) {
	r, notifier := newListRouter(&fakeOrders{})
	now := time.Now().UTC()
	id := uuid.New()

	before := domain.Order{ID: id, Items: domain.Items{foodItem()}}
	after := before
	after.FoodReadyAt = &now

	// Absent -> present fires.
	r.handle(context.Background(), marshal(t, domain.ChangeEvent{Type: domain.ChangeUpdate, Old: &before, New: &after}))
	if len(notifier.played) != 1 || notifier.played[0] != notify.KindFoodReady {
		t.Fatalf("played %v", notifier.played)
	}

	// Already present -> no repeat on later updates.
	later := after
	paid := time.Now().UTC()
	later.PaidAt = &paid
	r.handle(context.Background(), marshal(t, domain.ChangeEvent{Type: domain.ChangeUpdate, Old: &after, New: &later}))
	if len(notifier.played) != 1 {
		t.Fatalf("food-ready re-fired: %v", notifier.played)
	}
}

func TestEveryEventTriggersRefetch(t *testing.T) {
	svc := &fakeOrders{}
	r, _ := newListRouter(svc)
	id := uuid.New()
	o := domain.Order{ID: id, Items: domain.Items{drinkItem()}}

	for _, ev := range []domain.ChangeEvent{
		{Type: domain.ChangeInsert, New: &o},
		{Type: domain.ChangeUpdate, Old: &o, New: &o},
		{Type: domain.ChangeDelete, Old: &o},
	} {
		r.handle(context.Background(), marshal(t, ev))
	}
	if svc.fetches != 3 {
		t.Fatalf("expected 3 re-fetches, got %d", svc.fetches)
	}
}

func TestMalformedPayloadIsDropped(t *testing.T) {
	svc := &fakeOrders{}
	r, notifier := newListRouter(svc)

	r.handle(context.Background(), []byte(`{not json`))

	if svc.fetches != 0 || len(notifier.played) != 0 {
		t.Fatal("malformed payload caused side effects")
	}
}

func TestDetailModeAppliesRowDirectly(t *testing.T) {
	lg := logger.New("test")
	notifier := &fakeNotifier{}
	watched := uuid.New()

	var applied []domain.Order
	r := NewDetail(nil, notifier, lg, watched, func(o domain.Order) { applied = append(applied, o) })

	// Event for another order is ignored.
	other := domain.Order{ID: uuid.New(), Items: domain.Items{drinkItem()}}
	r.handle(context.Background(), marshal(t, domain.ChangeEvent{Type: domain.ChangeInsert, New: &other}))
	if len(applied) != 0 {
		t.Fatal("event for another order leaked into the detail view")
	}

	// Event for the watched order is applied without a re-fetch.
	mine := domain.Order{ID: watched, Items: domain.Items{foodItem()}}
	r.handle(context.Background(), marshal(t, domain.ChangeEvent{Type: domain.ChangeUpdate, Old: &mine, New: &mine}))
	if len(applied) != 1 || applied[0].ID != watched {
		t.Fatalf("applied = %+v", applied)
	}
}
