package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/ray-remotestate/tableorder/middlewares"
	"github.com/ray-remotestate/tableorder/models"
	"github.com/ray-remotestate/tableorder/services"
	"github.com/ray-remotestate/tableorder/utils"
	"github.com/sirupsen/logrus"
)

const refreshCookie = "refresh_token"

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type createStaffRequest struct {
	Name     string `json:"name" validate:"required"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin waiter kitchen bar"`
	Phone    string `json:"phone"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	staff, pair, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondWithServiceError(w, err, "failed to login")
		return
	}
	setRefreshCookie(w, pair)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Login successful",
		"accessToken": pair.AccessToken,
		"expiresAt":   pair.AccessExpiresAt,
		"staff":       staff,
	})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookie)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "refresh token missing")
		return
	}

	pair, err := h.auth.Refresh(r.Context(), cookie.Value)
	if err != nil {
		respondWithServiceError(w, err, "failed to refresh token")
		return
	}
	setRefreshCookie(w, pair)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"accessToken": pair.AccessToken,
		"expiresAt":   pair.AccessExpiresAt,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var refreshToken string
	if cookie, err := r.Cookie(refreshCookie); err == nil {
		refreshToken = cookie.Value
	}
	if err := h.auth.Logout(r.Context(), claims, refreshToken); err != nil {
		respondWithServiceError(w, err, "failed to logout")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (h *Handler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	var req createStaffRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	role, _ := models.ParseRole(req.Role)

	staff, err := h.auth.CreateStaff(r.Context(), services.CreateStaffInput{
		Name:     req.Name,
		Username: req.Username,
		Password: req.Password,
		Role:     role,
		Phone:    req.Phone,
	})
	if errors.Is(err, services.ErrDuplicateUsername) {
		logrus.WithField("username", req.Username).Warn("staff username already taken")
	}
	if err != nil {
		respondWithServiceError(w, err, "failed to create staff")
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Staff created",
		"staff":   staff,
	})
}

func setRefreshCookie(w http.ResponseWriter, pair utils.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    pair.RefreshToken,
		Path:     "/",
		Expires:  pair.RefreshExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
