package handlers

import (
	"net/http"
)

type customerRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Table int    `json:"table" validate:"required,gt=0"`
}

type identityRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

type activeCustomer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (h *Handler) AddCustomer(w http.ResponseWriter, r *http.Request) {
	var req identityRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	customer, err := h.customers.UpsertIdentity(r.Context(), req.Phone, req.Name)
	if err != nil {
		respondWithServiceError(w, err, "failed to save customer")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Customer saved",
		"customer": customer,
	})
}

func (h *Handler) JoinTable(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	session, created, err := h.customers.JoinTable(r.Context(), req.Phone, req.Name, req.Table)
	if err != nil {
		respondWithServiceError(w, err, "failed to join table")
		return
	}

	code, msg := http.StatusCreated, "User joined the table successfully."
	if !created {
		code, msg = http.StatusOK, "User already joined this table."
	}
	respondWithJSON(w, code, map[string]interface{}{
		"message": msg,
		"session": session,
	})
}

func (h *Handler) LiveCustomers(w http.ResponseWriter, r *http.Request) {
	tableNo, ok := tableParam(w, r, "table")
	if !ok {
		return
	}
	sessions, err := h.customers.ListActiveAtTable(r.Context(), tableNo)
	if err != nil {
		respondWithServiceError(w, err, "failed to list customers")
		return
	}
	users := make([]activeCustomer, 0, len(sessions))
	for _, s := range sessions {
		users = append(users, activeCustomer{Name: s.Name, Phone: s.Phone})
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}
