package domain

import "github.com/google/uuid"

// ChangeType mirrors the row-level operation behind a change event.
type ChangeType string

const (
	ChangeInsert ChangeType = "insert"
	ChangeUpdate ChangeType = "update"
	ChangeDelete ChangeType = "delete"
)

// ChangeEvent is what the change feed carries for every order mutation:
// the operation plus the row before and after it, where applicable.
type ChangeEvent struct {
	Type ChangeType `json:"type"`
	Old  *Order     `json:"old,omitempty"`
	New  *Order     `json:"new,omitempty"`
}

// OrderID identifies the affected order regardless of operation.
func (e ChangeEvent) OrderID() uuid.UUID {
	if e.New != nil {
		return e.New.ID
	}
	if e.Old != nil {
		return e.Old.ID
	}
	return uuid.Nil
}

// FoodBecameReady reports the absent-to-present edge of the food-ready
// timestamp, the trigger for the waiter's pickup notification.
func (e ChangeEvent) FoodBecameReady() bool {
	return e.Type == ChangeUpdate &&
		e.New != nil && e.New.FoodReadyAt != nil &&
		(e.Old == nil || e.Old.FoodReadyAt == nil)
}
