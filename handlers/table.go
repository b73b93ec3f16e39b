package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/ray-remotestate/tableorder/models"
	"github.com/ray-remotestate/tableorder/services"
)

type addTableRequest struct {
	TableNo         int    `json:"tableNo" validate:"required,gt=0"`
	Capacity        int    `json:"capacity" validate:"gte=0"`
	Status          string `json:"status" validate:"omitempty,oneof=available occupied cleaning reserved"`
	QRCodeURL       string `json:"qrCodeUrl" validate:"required"`
	QRCodeImage     string `json:"qrCodeImage"`
	QRCodeThumbnail string `json:"qrCodeThumbnail"`
}

type tableStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available occupied cleaning reserved"`
}

// assignTablesRequest accepts either the full desired set in tableIds or
// the incremental assignedTables/unassignedTables pair.
type assignTablesRequest struct {
	WaiterID         string   `json:"waiterId" validate:"required,uuid"`
	TableIDs         []string `json:"tableIds" validate:"omitempty,dive,uuid"`
	AssignedTables   []string `json:"assignedTables" validate:"omitempty,dive,uuid"`
	UnassignedTables []string `json:"unassignedTables" validate:"omitempty,dive,uuid"`
}

func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.tables.ListAll(r.Context())
	if err != nil {
		respondWithServiceError(w, err, "failed to list tables")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"tables": tables})
}

func (h *Handler) ListAvailableTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.tables.ListAvailable(r.Context())
	if err != nil {
		respondWithServiceError(w, err, "failed to list available tables")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"availableTables": tables})
}

func (h *Handler) ListAssignedTables(w http.ResponseWriter, r *http.Request) {
	waiterID, err := uuid.Parse(mux.Vars(r)["waiterId"])
	if err != nil {
		respondWithFields(w, map[string]string{"waiterId": "must be a valid UUID"})
		return
	}
	tables, err := h.tables.ListAssignedTo(r.Context(), waiterID)
	if err != nil {
		respondWithServiceError(w, err, "failed to list assigned tables")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{"assignedTables": tables})
}

func (h *Handler) AddTable(w http.ResponseWriter, r *http.Request) {
	var req addTableRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	table, err := h.tables.Create(r.Context(), services.CreateTableInput{
		TableNo:         req.TableNo,
		Capacity:        req.Capacity,
		Status:          models.TableStatus(req.Status),
		QRCodeURL:       req.QRCodeURL,
		QRCodeImage:     req.QRCodeImage,
		QRCodeThumbnail: req.QRCodeThumbnail,
	})
	if err != nil {
		respondWithServiceError(w, err, "failed to create table")
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Create successful",
		"data":    table,
	})
}

func (h *Handler) UpdateTableStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["tableId"])
	if err != nil {
		respondWithFields(w, map[string]string{"tableId": "must be a valid UUID"})
		return
	}
	var req tableStatusRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	table, err := h.tables.SetOccupancy(r.Context(), id, models.TableStatus(req.Status))
	if err != nil {
		respondWithServiceError(w, err, "failed to update table status")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Table status updated",
		"table":   table,
	})
}

func (h *Handler) AssignTables(w http.ResponseWriter, r *http.Request) {
	var req assignTablesRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	waiterID := uuid.MustParse(req.WaiterID)

	var (
		tables []models.Table
		err    error
	)
	if req.TableIDs != nil {
		tables, err = h.tables.Reassign(r.Context(), waiterID, parseIDs(req.TableIDs))
	} else {
		tables, err = h.tables.ApplyAssignmentChanges(r.Context(), waiterID,
			parseIDs(req.AssignedTables), parseIDs(req.UnassignedTables))
	}
	if err != nil {
		respondWithServiceError(w, err, "failed to update tables")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":        "Tables updated successfully",
		"assignedTables": tables,
	})
}

// parseIDs expects ids already checked by the uuid validator.
func parseIDs(raw []string) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		ids = append(ids, uuid.MustParse(s))
	}
	return ids
}
