package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"comandero/internal/auth"
	"comandero/internal/domain"
	"comandero/internal/orders"
)

type createOrderRequest struct {
	TableNumber string       `json:"table_number" validate:"required"`
	Items       domain.Items `json:"items" validate:"required,min=1"`
}

type updateItemsRequest struct {
	Items domain.Items `json:"items" validate:"required,min=1"`
}

// patchOrderRequest mirrors orders.Patch: absent fields stay untouched.
type patchOrderRequest struct {
	Items         *domain.Items `json:"items,omitempty" validate:"omitempty,min=1"`
	DrinksReadyAt *time.Time    `json:"drinks_ready_at,omitempty"`
	FoodReadyAt   *time.Time    `json:"food_ready_at,omitempty"`
	PaidAt        *time.Time    `json:"paid_at,omitempty"`
	CancelledAt   *time.Time    `json:"cancelled_at,omitempty"`
}

// orderView decorates an order with its derived classifications so every
// client renders status from the same precedence rules.
type orderView struct {
	domain.Order
	Status domain.Status `json:"status"`
	Stage  domain.Stage  `json:"stage"`
	Total  string        `json:"total"`
}

func toView(o domain.Order) orderView {
	return orderView{
		Order:  o,
		Status: domain.Classify(o),
		Stage:  domain.ClassifyStage(o),
		Total:  o.Total().String(),
	}
}

func toViews(list []domain.Order) []orderView {
	out := make([]orderView, 0, len(list))
	for _, o := range list {
		out = append(out, toView(o))
	}
	return out
}

// handleListOrders serves the active set, oldest first, optionally
// narrowed by ?tab=food|drink|all.
func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	active, err := s.orders.ActiveOrders(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	tab := domain.TabAll
	if raw := r.URL.Query().Get("tab"); raw != "" {
		parsed, err := domain.ParseTab(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		tab = parsed
	}
	writeJSON(w, http.StatusOK, toViews(domain.FilterOrders(active, tab)))
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}
	o, err := s.orders.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toView(o))
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	createdBy := "unknown"
	if claims, ok := auth.FromContext(r.Context()); ok {
		createdBy = claims.Name
	}

	created, err := s.orders.Create(r.Context(), req.TableNumber, createdBy, req.Items)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toView(created))
}

func (s *Server) handleUpdateItems(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	var req updateItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	updated, err := s.orders.UpdateItems(r.Context(), id, req.Items)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toView(updated))
}

// handlePatchOrder applies a partial update to any subset of the item
// list and status timestamps.
func (s *Server) handlePatchOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	var req patchOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	updated, err := s.orders.Update(r.Context(), id, orders.Patch{
		Items:         req.Items,
		DrinksReadyAt: req.DrinksReadyAt,
		FoodReadyAt:   req.FoodReadyAt,
		PaidAt:        req.PaidAt,
		CancelledAt:   req.CancelledAt,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toView(updated))
}

// markHandler wraps one lifecycle transition into a handler.
func (s *Server) markHandler(transition func(context.Context, uuid.UUID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, errors.New("invalid order id"))
			return
		}
		if err := transition(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}
		o, err := s.orders.GetByID(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toView(o))
	}
}

func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}
	if err := s.orders.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
