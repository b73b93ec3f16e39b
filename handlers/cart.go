package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ray-remotestate/tableorder/models"
	"github.com/ray-remotestate/tableorder/services"
)

type addToCartRequest struct {
	TableNo            int      `json:"tableNo" validate:"required,gt=0"`
	CustomerName       string   `json:"customerName"`
	Phone              string   `json:"phone" validate:"required"`
	ProductID          string   `json:"productId" validate:"required"`
	ProductName        string   `json:"productName" validate:"required"`
	ProductDescription string   `json:"productDescription"`
	ProductImage       string   `json:"productImage"`
	Station            string   `json:"station"`
	Price              *float64 `json:"price" validate:"required,gte=0"`
	Action             string   `json:"action" validate:"required,oneof=add remove"`
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	station, ok := models.ParseStation(req.Station)
	if !ok {
		respondWithFields(w, map[string]string{"station": "must be kitchen or bar"})
		return
	}

	delta := 1
	if req.Action == "remove" {
		delta = -1
	}
	line, err := h.cart.AddOrAdjust(r.Context(), services.AddToCartInput{
		TableNo:      req.TableNo,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Product: models.ProductSnapshot{
			ID:          req.ProductID,
			Name:        req.ProductName,
			Description: req.ProductDescription,
			Image:       req.ProductImage,
			Station:     station,
			Price:       *req.Price,
		},
		Delta: delta,
	})
	if err != nil {
		respondWithServiceError(w, err, "failed to update cart")
		return
	}

	msg := "Item quantity updated"
	switch {
	case line.Quantity == 0:
		msg = "Item removed from cart"
	case delta > 0 && line.Quantity == 1:
		msg = "Item added to cart"
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":  msg,
		"cartItem": line,
	})
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	tableNo, ok := tableParam(w, r, "table")
	if !ok {
		return
	}
	vars := mux.Vars(r)
	if err := h.cart.Remove(r.Context(), tableNo, vars["phone"], vars["productId"]); err != nil {
		respondWithServiceError(w, err, "failed to remove item from cart")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Item removed from cart"})
}

func (h *Handler) LiveCart(w http.ResponseWriter, r *http.Request) {
	tableNo, ok := tableParam(w, r, "table")
	if !ok {
		return
	}
	lines, err := h.cart.ListForTable(r.Context(), tableNo)
	if err != nil {
		respondWithServiceError(w, err, "failed to list cart")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"cartItems": lines})
}
