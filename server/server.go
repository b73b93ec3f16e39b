package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/ray-remotestate/tableorder/handlers"
	"github.com/ray-remotestate/tableorder/middlewares"
	"github.com/ray-remotestate/tableorder/models"
)

type Server struct {
	Router *mux.Router
	server *http.Server
}

const (
	readTimeout       = 5 * time.Minute
	readHeaderTimeout = 30 * time.Second
	writeTimeout      = 5 * time.Minute
)

func SetupRoutes(h *handlers.Handler, secret []byte, revoked middlewares.RevocationChecker) *Server {
	router := mux.NewRouter()
	router.Use(middlewares.RequestLogger)

	auth := middlewares.AuthMiddleware(secret, revoked)
	protect := func(hf http.HandlerFunc, roles ...models.Role) http.Handler {
		var next http.Handler = hf
		if len(roles) > 0 {
			next = middlewares.RoleBasedMiddleware(roles...)(next)
		}
		return auth(next)
	}

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"alive": true}`)
	}).Methods(http.MethodGet)

	router.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	router.HandleFunc("/auth/refresh", h.Refresh).Methods(http.MethodPost)
	router.Handle("/auth/logout", protect(h.Logout)).Methods(http.MethodPost)
	router.Handle("/staff", protect(h.CreateStaff, models.RoleAdmin)).Methods(http.MethodPost)

	// customer facing
	cart := router.PathPrefix("/cart").Subrouter()
	cart.HandleFunc("/add", h.AddToCart).Methods(http.MethodPost)
	cart.HandleFunc("/remove/{productId}/{table}/{phone}", h.RemoveFromCart).Methods(http.MethodDelete)
	cart.HandleFunc("/live", h.LiveCart).Methods(http.MethodGet)

	customers := router.PathPrefix("/customers").Subrouter()
	customers.HandleFunc("/add", h.AddCustomer).Methods(http.MethodPost)
	customers.HandleFunc("/join-table", h.JoinTable).Methods(http.MethodPost)
	customers.HandleFunc("/live", h.LiveCustomers).Methods(http.MethodGet)

	orders := router.PathPrefix("/orders").Subrouter()
	orders.HandleFunc("/placeOrder", h.PlaceOrder).Methods(http.MethodPost)
	orders.HandleFunc("/live/{table}/{phone}", h.LiveOrdersForCustomer).Methods(http.MethodGet)

	// staff
	orders.Handle("/live/{table}", protect(h.LiveOrdersForTable, models.RoleWaiter, models.RoleAdmin)).Methods(http.MethodGet)
	orders.Handle("/livefoodorders/{table}",
		protect(h.LiveFoodOrders, models.RoleKitchen, models.RoleWaiter, models.RoleAdmin)).Methods(http.MethodGet)
	orders.Handle("/livedrinkorders/{table}",
		protect(h.LiveDrinkOrders, models.RoleBar, models.RoleWaiter, models.RoleAdmin)).Methods(http.MethodGet)
	orders.Handle("/{orderId}/status",
		protect(h.UpdateOrderStatus, models.RoleKitchen, models.RoleBar, models.RoleWaiter, models.RoleAdmin)).Methods(http.MethodPut)

	tables := router.PathPrefix("/tables").Subrouter()
	tables.HandleFunc("/all", h.ListTables).Methods(http.MethodGet)
	tables.HandleFunc("/available", h.ListAvailableTables).Methods(http.MethodGet)
	tables.HandleFunc("/assigned/{waiterId}", h.ListAssignedTables).Methods(http.MethodGet)
	tables.Handle("/add", protect(h.AddTable, models.RoleAdmin)).Methods(http.MethodPost)
	tables.Handle("/{tableId}/status", protect(h.UpdateTableStatus, models.RoleWaiter, models.RoleAdmin)).Methods(http.MethodPut)
	tables.Handle("/assign", protect(h.AssignTables, models.RoleAdmin)).Methods(http.MethodPost)

	return &Server{
		Router: router,
	}
}

func (svr *Server) Run(port string) error {
	svr.server = &http.Server{
		Addr:              port,
		Handler:           svr.Router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
	}
	return svr.server.ListenAndServe()
}

func (svr *Server) Shutdown(timeout time.Duration) error {
	if svr.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return svr.server.Shutdown(ctx)
}
