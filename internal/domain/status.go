package domain

import (
	"errors"
	"time"
)

// ErrOrderClosed rejects a transition against an order that already has a
// terminal timestamp. Paid and cancelled exclude each other.
var ErrOrderClosed = errors.New("order already paid or cancelled")

// Status is the display classification of an order, derived from which
// timestamps are set. It is never stored.
type Status string

const (
	StatusNew         Status = "New"
	StatusDrinksReady Status = "Drinks Ready"
	StatusFoodReady   Status = "Food Ready"
	StatusReady       Status = "Ready"
	StatusPaid        Status = "Paid"
	StatusCancelled   Status = "Cancelled"
)

// Classify derives the order's status. Precedence matters: cancelled wins
// over paid, paid over readiness, full readiness over partial.
func Classify(o Order) Status {
	switch {
	case o.CancelledAt != nil:
		return StatusCancelled
	case o.PaidAt != nil:
		return StatusPaid
	case o.FoodReadyAt != nil && o.DrinksReadyAt != nil:
		return StatusReady
	case o.FoodReadyAt != nil:
		return StatusFoodReady
	case o.DrinksReadyAt != nil:
		return StatusDrinksReady
	default:
		return StatusNew
	}
}

// Stage is the finer badge classification for active orders. It folds in
// the item composition: a station with nothing to prepare is never waited
// on, and untyped items count for both stations.
type Stage string

const (
	StagePreparing       Stage = "preparing"
	StageAwaitingFood    Stage = "awaiting_food"
	StageAwaitingDrinks  Stage = "awaiting_drinks"
	StageAwaitingPayment Stage = "awaiting_payment"
	StageClosed          Stage = "closed"
)

func ClassifyStage(o Order) Stage {
	if o.Closed() {
		return StageClosed
	}
	needFood := o.Items.HasFood() && o.FoodReadyAt == nil
	needDrinks := o.Items.HasDrinks() && o.DrinksReadyAt == nil
	switch {
	case !needFood && !needDrinks:
		return StageAwaitingPayment
	case needFood && needDrinks:
		return StagePreparing
	case needFood:
		return StageAwaitingFood
	default:
		return StageAwaitingDrinks
	}
}

// EventKind names the four lifecycle transitions.
type EventKind string

const (
	EventDrinksReady EventKind = "drinks_ready"
	EventFoodReady   EventKind = "food_ready"
	EventPaid        EventKind = "paid"
	EventCancelled   EventKind = "cancelled"
)

// Apply stamps the event's timestamp on the order. Timestamps are
// set-once: re-applying an event that is already recorded is a no-op and
// the original timestamp is kept. A terminal order rejects everything,
// including the other terminal event.
func Apply(o *Order, kind EventKind, now time.Time) (changed bool, err error) {
	switch kind {
	case EventDrinksReady:
		if o.Closed() {
			return false, ErrOrderClosed
		}
		if o.DrinksReadyAt != nil {
			return false, nil
		}
		o.DrinksReadyAt = &now
	case EventFoodReady:
		if o.Closed() {
			return false, ErrOrderClosed
		}
		if o.FoodReadyAt != nil {
			return false, nil
		}
		o.FoodReadyAt = &now
	case EventPaid:
		if o.PaidAt != nil {
			return false, nil
		}
		if o.CancelledAt != nil {
			return false, ErrOrderClosed
		}
		o.PaidAt = &now
	case EventCancelled:
		if o.CancelledAt != nil {
			return false, nil
		}
		if o.PaidAt != nil {
			return false, ErrOrderClosed
		}
		o.CancelledAt = &now
	default:
		return false, errors.New("unknown order event: " + string(kind))
	}
	return true, nil
}
