// Package router consumes the order change feed and keeps a device's
// working set in sync: every event triggers a full re-fetch (the detail
// subscription applies the event's row directly instead), and insert or
// readiness events are routed to the station's notifier.
package router

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"comandero/internal/connections/rabbitmq"
	"comandero/internal/domain"
	"comandero/internal/logger"
	"comandero/internal/notify"
	"comandero/internal/sync"
)

type Router struct {
	mq       *rabbitmq.Client
	store    *sync.Store
	notifier notify.Notifier
	lg       *logger.Logger

	// Detail-view narrowing. When orderID is set only that order's events
	// pass through, and the row is applied via onOrder instead of a
	// re-fetch: the subscriber holds exactly one record.
	orderID uuid.UUID
	onOrder func(domain.Order)
}

func New(mq *rabbitmq.Client, store *sync.Store, notifier notify.Notifier, lg *logger.Logger) *Router {
	return &Router{mq: mq, store: store, notifier: notifier, lg: lg}
}

// NewDetail narrows the router to a single order. The fanout exchange has
// no server-side row predicate, so the filter is applied here.
func NewDetail(mq *rabbitmq.Client, notifier notify.Notifier, lg *logger.Logger, orderID uuid.UUID, onOrder func(domain.Order)) *Router {
	return &Router{mq: mq, notifier: notifier, lg: lg, orderID: orderID, onOrder: onOrder}
}

// Run consumes the feed until the context is cancelled or the broker
// closes the channel. A silent feed is normal, not an error.
func (r *Router) Run(ctx context.Context, consumer string) error {
	deliveries, err := r.mq.Subscribe(consumer)
	if err != nil {
		return err
	}
	r.lg.Info("feed_subscribed", map[string]any{"consumer": consumer})

	for {
		select {
		case <-ctx.Done():
			r.lg.Info("feed_unsubscribed", map[string]any{"consumer": consumer})
			return nil
		case d, ok := <-deliveries:
			if !ok {
				r.lg.Info("feed_closed", map[string]any{"consumer": consumer})
				return nil
			}
			r.handle(ctx, d.Body)
		}
	}
}

// handle processes one raw feed payload. Malformed payloads are logged
// and dropped; the feed keeps going.
func (r *Router) handle(ctx context.Context, body []byte) {
	var ev domain.ChangeEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		r.lg.Error("malformed_change_event", err, nil)
		return
	}

	if r.orderID != uuid.Nil {
		if ev.OrderID() != r.orderID {
			return
		}
		if ev.New != nil && r.onOrder != nil {
			r.onOrder(*ev.New)
		}
		r.route(ev)
		return
	}

	if err := r.store.Refresh(ctx); err != nil {
		// Stale until the next event or a manual refresh.
		r.lg.Error("refresh_after_event_failed", err, nil)
	}
	r.route(ev)
}

// route dispatches the notifications an event implies. The notifier does
// the role gating; this side classifies the order's composition.
func (r *Router) route(ev domain.ChangeEvent) {
	switch {
	case ev.Type == domain.ChangeInsert && ev.New != nil:
		if ev.New.Items.HasDrinks() {
			r.notifier.Play(notify.KindNewDrinks)
		}
		if ev.New.Items.HasFood() {
			r.notifier.Play(notify.KindNewFood)
		}
	case ev.FoodBecameReady():
		r.notifier.Play(notify.KindFoodReady)
	}
}
