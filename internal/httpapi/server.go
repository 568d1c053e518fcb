package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"comandero/internal/auth"
	"comandero/internal/catalog"
	"comandero/internal/logger"
	"comandero/internal/orders"
)

type Server struct {
	http     *http.Server
	orders   orders.ServiceInterface
	catalog  *catalog.Service
	auth     *auth.Service
	validate *validator.Validate
	lg       *logger.Logger
}

func New(port int, ordersSvc orders.ServiceInterface, catalogSvc *catalog.Service, authSvc *auth.Service, lg *logger.Logger) *Server {
	s := &Server{
		orders:   ordersSvc,
		catalog:  catalogSvc,
		auth:     authSvc,
		validate: validator.New(),
		lg:       lg,
	}

	r := mux.NewRouter()
	r.HandleFunc("/auth/signup", s.handleSignUp).Methods(http.MethodPost)
	r.HandleFunc("/auth/signin", s.handleSignIn).Methods(http.MethodPost)

	secured := r.PathPrefix("/").Subrouter()
	secured.Use(authSvc.Middleware)

	secured.HandleFunc("/products", s.handleListProducts).Methods(http.MethodGet)
	secured.HandleFunc("/products", s.handleCreateProduct).Methods(http.MethodPost)
	secured.HandleFunc("/products/{id}", s.handleUpdateProduct).Methods(http.MethodPatch)
	secured.HandleFunc("/products/{id}", s.handleDeleteProduct).Methods(http.MethodDelete)

	secured.HandleFunc("/orders", s.handleListOrders).Methods(http.MethodGet)
	secured.HandleFunc("/orders", s.handleCreateOrder).Methods(http.MethodPost)
	secured.HandleFunc("/orders/{id}", s.handleGetOrder).Methods(http.MethodGet)
	secured.HandleFunc("/orders/{id}", s.handlePatchOrder).Methods(http.MethodPatch)
	secured.HandleFunc("/orders/{id}", s.handleDeleteOrder).Methods(http.MethodDelete)
	secured.HandleFunc("/orders/{id}/items", s.handleUpdateItems).Methods(http.MethodPatch)
	secured.HandleFunc("/orders/{id}/drinks-ready", s.markHandler(ordersSvc.MarkDrinksReady)).Methods(http.MethodPost)
	secured.HandleFunc("/orders/{id}/food-ready", s.markHandler(ordersSvc.MarkFoodReady)).Methods(http.MethodPost)
	secured.HandleFunc("/orders/{id}/paid", s.markHandler(ordersSvc.MarkPaid)).Methods(http.MethodPost)
	secured.HandleFunc("/orders/{id}/cancel", s.markHandler(ordersSvc.MarkCancelled)).Methods(http.MethodPost)

	s.http = &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: r}
	return s
}

// Run serves until the context is cancelled, then drains.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.http.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.http.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
