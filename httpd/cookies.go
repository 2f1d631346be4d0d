package httpd

import (
	"net/http"
	"time"

	"github.com/gelozr/gate/auth"
	"github.com/gelozr/gate/oidc"
)

const (
	refreshCookieName = "refreshToken"

	oauthIDTokenCookie      = "oauth_id_token"
	oauthAccessTokenCookie  = "oauth_access_token"
	oauthRefreshTokenCookie = "oauth_refresh_token"
)

// The refresh token travels only in this cookie: HttpOnly keeps scripts away
// from it, SameSite=Strict keeps it off cross-site requests, and the path
// restricts it to the auth endpoints.
func (h *Handler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/auth",
		MaxAge:   int(auth.RefreshTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

// clearRefreshCookie uses the same flags as setRefreshCookie so the browser
// matches and drops the stored cookie.
func (h *Handler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/auth",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

// setOAuthCookies stores the provider's tokens separately from this
// service's own session cookie.
func (h *Handler) setOAuthCookies(w http.ResponseWriter, set oidc.TokenSet) {
	maxAge := 0
	if !set.Expiry.IsZero() {
		maxAge = int(time.Until(set.Expiry).Seconds())
	}

	base := http.Cookie{
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	}

	id := base
	id.Name = oauthIDTokenCookie
	id.Value = set.IDToken
	id.MaxAge = maxAge
	http.SetCookie(w, &id)

	access := base
	access.Name = oauthAccessTokenCookie
	access.Value = set.AccessToken
	access.MaxAge = maxAge
	http.SetCookie(w, &access)

	if set.RefreshToken != "" {
		refresh := base
		refresh.Name = oauthRefreshTokenCookie
		refresh.Value = set.RefreshToken
		http.SetCookie(w, &refresh)
	}
}
