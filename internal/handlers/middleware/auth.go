package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/PickAim/jarvis-backend/internal/apperrors"
	"github.com/PickAim/jarvis-backend/internal/handlers/render"
	"github.com/PickAim/jarvis-backend/internal/handlers/userctx"
	"github.com/PickAim/jarvis-backend/internal/models"
)

type authService interface {
	// Authenticate request and return its user
	Auth(ctx context.Context, r *http.Request) (models.User, error)
}

// AuthMiddleware rejects requests without a live access token.
// Expired tokens get a distinct code so the client knows to refresh.
func AuthMiddleware(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := as.Auth(r.Context(), r)
			if err != nil {
				message := "Unauthorized"
				if errors.Is(err, apperrors.ErrTokenExpired) {
					message = "Access token expired"
				}
				render.ServiceError(w, apperrors.Code(err), message, http.StatusUnauthorized)
				return
			}

			ctx := userctx.New(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
