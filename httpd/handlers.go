package httpd

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gelozr/gate/auth"
	"github.com/gelozr/gate/oidc"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type callbackRequest struct {
	Code string `json:"code"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.creds.Register(r.Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrValidation):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, auth.ErrEmailTaken):
			respondError(w, http.StatusConflict, "Email already in use")
		default:
			h.serverError(w, r, err)
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	pair, err := h.creds.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.serverError(w, r, err)
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	respondJSON(w, http.StatusOK, map[string]string{"accessToken": pair.AccessToken})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "No refresh token")
		return
	}

	pair, err := h.sessions.Refresh(r.Context(), cookie.Value)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			respondError(w, http.StatusUnauthorized, "User not found")
		case errors.Is(err, auth.ErrTokenInvalid), errors.Is(err, auth.ErrTokenExpired):
			respondError(w, http.StatusUnauthorized, "Invalid refresh token")
		default:
			h.serverError(w, r, err)
		}
		return
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	respondJSON(w, http.StatusOK, map[string]string{"accessToken": pair.AccessToken})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	var token string
	if cookie, err := r.Cookie(refreshCookieName); err == nil {
		token = cookie.Value
	}

	if err := h.sessions.Logout(r.Context(), token); err != nil {
		h.serverError(w, r, err)
		return
	}

	h.clearRefreshCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// me returns the authenticated caller's claims. It exists so the verifier
// chain has a guarded route in front of it.
func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromCtx(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"id":    claims.Subject,
		"email": claims.Email,
		"name":  claims.Name,
	})
}

func (h *Handler) oauthCallback(w http.ResponseWriter, r *http.Request) {
	if h.exchange == nil {
		respondError(w, http.StatusNotImplemented, "OAuth is not configured")
		return
	}

	var req callbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		respondError(w, http.StatusBadRequest, "Missing authorization code")
		return
	}

	set, err := h.exchange.Exchange(r.Context(), req.Code)
	if err != nil {
		var xerr *oidc.ExchangeError
		if errors.As(err, &xerr) {
			// The provider's body is for our logs, never for the client.
			h.logger.Warn("oauth exchange rejected",
				"status", xerr.StatusCode,
				"provider_body", xerr.Body,
			)
			respondError(w, http.StatusBadRequest, "OAuth exchange failed")
			return
		}
		h.logger.Error("oauth exchange failed", "error", err)
		respondError(w, http.StatusBadGateway, "OAuth provider unavailable")
		return
	}

	h.setOAuthCookies(w, set)
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Authenticated with Google",
		"user": map[string]string{
			"id":    set.Identity.Subject,
			"email": set.Identity.Email,
			"name":  set.Identity.Name,
		},
	})
}

// serverError logs the detail and returns a generic 500: infrastructure
// failures never leak internals to the client.
func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	respondError(w, http.StatusInternalServerError, "Internal server error")
}
