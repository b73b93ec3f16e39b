package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/ray-remotestate/tableorder/models"
	"github.com/ray-remotestate/tableorder/services"
)

type placeOrderRequest struct {
	TableNo      int      `json:"tableNo" validate:"required,gt=0"`
	Phone        string   `json:"phone" validate:"required"`
	CustomerName string   `json:"customerName"`
	Total        *float64 `json:"total" validate:"omitempty,gte=0"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	in := services.PlaceOrderInput{TableNo: req.TableNo, Phone: req.Phone, CustomerName: req.CustomerName}
	if req.Total != nil {
		in.DeclaredTotal = *req.Total
	}
	placed, err := h.orders.PlaceOrder(r.Context(), in)
	if err != nil {
		respondWithServiceError(w, err, "failed to place order")
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Order placed successfully!",
		"order":   placed,
	})
}

func (h *Handler) LiveOrdersForCustomer(w http.ResponseWriter, r *http.Request) {
	tableNo, ok := tableParam(w, r, "table")
	if !ok {
		return
	}
	lines, err := h.orders.ListByTableAndPhone(r.Context(), tableNo, mux.Vars(r)["phone"])
	h.respondWithOrders(w, lines, err)
}

func (h *Handler) LiveOrdersForTable(w http.ResponseWriter, r *http.Request) {
	tableNo, ok := tableParam(w, r, "table")
	if !ok {
		return
	}
	lines, err := h.orders.ListByTable(r.Context(), tableNo)
	h.respondWithOrders(w, lines, err)
}

func (h *Handler) LiveFoodOrders(w http.ResponseWriter, r *http.Request) {
	h.liveStationOrders(w, r, models.StationKitchen)
}

func (h *Handler) LiveDrinkOrders(w http.ResponseWriter, r *http.Request) {
	h.liveStationOrders(w, r, models.StationBar)
}

func (h *Handler) liveStationOrders(w http.ResponseWriter, r *http.Request, station models.Station) {
	tableNo, ok := tableParam(w, r, "table")
	if !ok {
		return
	}
	lines, err := h.orders.ListByTableAndStation(r.Context(), tableNo, station)
	h.respondWithOrders(w, lines, err)
}

func (h *Handler) respondWithOrders(w http.ResponseWriter, lines []models.OrderLine, err error) {
	if err != nil {
		respondWithServiceError(w, err, "failed to list orders")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"orders": lines})
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["orderId"])
	if err != nil {
		respondWithFields(w, map[string]string{"orderId": "must be a valid UUID"})
		return
	}
	var req updateStatusRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	line, err := h.orders.UpdateStatus(r.Context(), id, models.OrderStatus(req.Status))
	if err != nil {
		respondWithServiceError(w, err, "failed to update order status")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Order status updated",
		"order":   line,
	})
}
