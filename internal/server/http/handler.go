package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophsession/internal/common"
	"github.com/dmitrijs2005/gophsession/internal/logging"
	"github.com/dmitrijs2005/gophsession/internal/server/models"
)

const maxBodyBytes = 1 << 16

// TokenService is the part of services.TokenService the HTTP API needs.
type TokenService interface {
	Refresh(ctx context.Context, token string) (*models.TokenPair, error)
	Revoke(ctx context.Context, token string) error
}

// AuthHandler serves the refresh and revoke endpoints.
type AuthHandler struct {
	tokens TokenService
	logger logging.Logger
}

func NewAuthHandler(ts TokenService, l logging.Logger) *AuthHandler {
	return &AuthHandler{tokens: ts, logger: l}
}

// RefreshRequest is the body of both auth endpoints.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenResponse is returned by a successful refresh.
type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Refresh handles POST /api/auth/refresh.
// A missing or unreadable body is treated like an unknown token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	req := decodeRequest(w, r)

	pair, err := h.tokens.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid token"})
			return
		}
		h.logger.Error(r.Context(), "refresh failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{Token: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// Revoke handles POST /api/auth/revoke. It answers 204 whether or not the
// token existed.
func (h *AuthHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	req := decodeRequest(w, r)

	if err := h.tokens.Revoke(r.Context(), req.RefreshToken); err != nil {
		h.logger.Error(r.Context(), "revoke failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeRequest(w http.ResponseWriter, r *http.Request) RefreshRequest {
	var req RefreshRequest
	if r.Body == nil {
		return req
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return RefreshRequest{}
	}
	return req
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
