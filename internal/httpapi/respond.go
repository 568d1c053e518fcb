package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"comandero/internal/catalog"
	"comandero/internal/domain"
	"comandero/internal/orders"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeServiceError maps service failures onto HTTP statuses. Validation
// problems are the caller's fault; everything else stays a 500 and the
// caller retries by hand.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orders.ErrNotFound), errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrOrderClosed):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, orders.ErrEmptyTable),
		errors.Is(err, orders.ErrNoItems),
		errors.Is(err, orders.ErrInvalidAmount),
		errors.Is(err, orders.ErrDuplicateProduct),
		errors.Is(err, catalog.ErrEmptyName),
		errors.Is(err, catalog.ErrNegativePrice),
		errors.Is(err, catalog.ErrBadCategory):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["id"])
}
