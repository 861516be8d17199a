package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/PickAim/jarvis-backend/internal/apperrors"
	"github.com/PickAim/jarvis-backend/internal/models"
)

// Cookie names for the token triple. Cookies are the browser managed
// channel and win over body fields when both are present.
const (
	AccessCookieName  = "cookie_access_token"
	UpdateCookieName  = "cookie_update_token"
	ImprintCookieName = "cookie_imprint_token"

	accessCookiePath = "/access"
	updateCookiePath = "/update"
)

// ReadToken selects a token value by fixed precedence:
// cookie, then the explicit body field value, then the query parameter.
func ReadToken(r *http.Request, cookieName string, queryName string, bodyValue string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if bodyValue != "" {
		return bodyValue
	}
	return r.URL.Query().Get(queryName)
}

func (s *AuthService) AccessFromRequest(r *http.Request, bodyValue string) string {
	return ReadToken(r, AccessCookieName, "access_token", bodyValue)
}

func (s *AuthService) UpdateFromRequest(r *http.Request, bodyValue string) string {
	return ReadToken(r, UpdateCookieName, "update_token", bodyValue)
}

func (s *AuthService) ImprintFromRequest(r *http.Request, bodyValue string) string {
	return ReadToken(r, ImprintCookieName, "imprint_token", bodyValue)
}

// Auth authenticates a request from its cookies or query parameters.
// Used by the auth middleware on every protected route.
func (s *AuthService) Auth(ctx context.Context, r *http.Request) (models.User, error) {
	access := s.AccessFromRequest(r, "")
	if access == "" {
		return models.User{}, apperrors.ErrIncorrectToken
	}

	return s.CheckAccess(ctx, access, s.ImprintFromRequest(r, ""))
}

// SetTokenTripleToResponse sets the three auth cookies. The access cookie
// is scoped to protected routes, the update cookie to the refresh route
// only, so each credential travels to the endpoints that need it.
func (s *AuthService) SetTokenTripleToResponse(w http.ResponseWriter, triple models.TokenTriple) {
	for _, c := range tripleCookies(triple) {
		http.SetCookie(w, c)
	}
}

// SetTokenTripleToRequest mirrors the response cookies onto a request.
// Handy in tests and internal clients.
func (s *AuthService) SetTokenTripleToRequest(r *http.Request, triple models.TokenTriple) {
	for _, c := range tripleCookies(triple) {
		r.AddCookie(c)
	}
}

func tripleCookies(triple models.TokenTriple) []*http.Cookie {
	access := &http.Cookie{
		Name:     AccessCookieName,
		Value:    triple.Access.Value,
		Path:     accessCookiePath,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
	if !triple.Access.ExpiresAt.IsZero() {
		access.MaxAge = int(time.Until(triple.Access.ExpiresAt).Seconds())
	}

	update := &http.Cookie{
		Name:     UpdateCookieName,
		Value:    triple.Update.Value,
		Path:     updateCookiePath,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}

	imprint := &http.Cookie{
		Name:     ImprintCookieName,
		Value:    triple.Imprint,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}

	return []*http.Cookie{access, update, imprint}
}
