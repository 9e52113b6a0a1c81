package auth

import (
	"errors"
	"net/http"

	"github.com/schoolplanner/backend/internal/api"
)

// Handler holds the token endpoints. Both take their parameters from the
// query string, mirroring the OAuth password / refresh_token grants.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Token handles GET /auth/token?grant_type=password&username=&password=.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	grantType, username, password := q.Get("grant_type"), q.Get("username"), q.Get("password")

	if grantType == "" || username == "" || password == "" {
		api.Error(w, http.StatusBadRequest, "invalid_request", "Missing required parameter(s)")
		return
	}
	if grantType != "password" {
		api.Error(w, http.StatusBadRequest, "invalid_request", "grant_type must be password")
		return
	}

	resp, err := h.service.IssueToken(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			api.Error(w, http.StatusBadRequest, "invalid_grant", "Wrong username or password")
			return
		}
		api.StorageError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, resp)
}

// Refresh handles GET /auth/refresh?grant_type=refresh_token&refresh_token=.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	grantType, refreshToken := q.Get("grant_type"), q.Get("refresh_token")

	if grantType == "" || refreshToken == "" {
		api.Error(w, http.StatusBadRequest, "invalid_request", "Missing required parameter(s)")
		return
	}
	if grantType != "refresh_token" {
		api.Error(w, http.StatusBadRequest, "invalid_request", "grant_type must be refresh_token")
		return
	}

	resp, err := h.service.Refresh(r.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidGrant) {
			api.Error(w, http.StatusBadRequest, "invalid_grant", "Unknown refresh token")
			return
		}
		api.StorageError(w, err)
		return
	}
	api.JSON(w, http.StatusOK, resp)
}
