package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/ray-remotestate/tableorder/services"
	"github.com/sirupsen/logrus"
)

type validationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logrus.WithError(err).Error("failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		logrus.WithError(err).Error("failed to write JSON response")
	}
}

func respondWithFields(w http.ResponseWriter, fields map[string]string) {
	respondWithJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:  "validation failed",
		Fields: fields,
	})
}

func mapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondWithServiceError writes err with its mapped status. Internal
// failures are logged and hidden from the client.
func respondWithServiceError(w http.ResponseWriter, err error, msg string) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		respondWithFields(w, verr.Fields)
		return
	}

	code := mapErrorToStatusCode(err)
	if code == http.StatusInternalServerError {
		logrus.WithError(err).Error(msg)
		respondWithError(w, code, msg)
		return
	}
	respondWithError(w, code, err.Error())
}

// decodeAndValidate fills dst from the JSON body and runs its validate
// tags. It writes the 400 response itself and reports false on failure.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			respondWithFields(w, formatValidationErrors(verrs))
			return false
		}
		logrus.WithError(err).Error("unexpected validation error")
		respondWithError(w, http.StatusInternalServerError, "internal validation error")
		return false
	}
	return true
}

func formatValidationErrors(verrs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "is required"
		case "gt":
			msg = "must be greater than " + fe.Param()
		case "gte":
			msg = "must be at least " + fe.Param()
		case "min":
			msg = "must be at least " + fe.Param() + " characters"
		case "oneof":
			msg = "must be one of: " + fe.Param()
		case "uuid":
			msg = "must be a valid UUID"
		default:
			msg = fmt.Sprintf("failed %q validation", fe.Tag())
		}
		fields[fe.Field()] = msg
	}
	return fields
}

// tableParam reads a positive table number from the path or query.
func tableParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw, ok := mux.Vars(r)[name]
	if !ok {
		raw = r.URL.Query().Get(name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		respondWithFields(w, map[string]string{name: "must be a positive table number"})
		return 0, false
	}
	return n, true
}
