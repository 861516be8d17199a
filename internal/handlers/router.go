package handlers

import (
	"context"
	"net/http"

	"github.com/PickAim/jarvis-backend/internal/handlers/middleware"
	"github.com/PickAim/jarvis-backend/internal/logger"
	"github.com/PickAim/jarvis-backend/internal/models"
	"github.com/PickAim/jarvis-backend/internal/service/calc"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

// NewRouter wires every route of the service.
// Protected routes live under /access so the access token cookie, scoped
// to that path, travels only where it is needed; the refresh route lives
// under /update for the same reason.
func NewRouter(
	authService authService,
	calcService calcService,
	l logger.Logger,
) http.Handler {
	withAuth := middleware.AuthMiddleware(authService)

	mux := http.NewServeMux()

	mux.Handle("POST /auth/register", handleRegister(authService, l))
	mux.Handle("POST /auth/login", handleLogin(authService, l))
	mux.Handle("POST /auth/logout", handleLogout(authService, l))

	mux.Handle("POST /update/tokens", handleTokenRefresh(authService, l))

	mux.Handle("POST /access/calc/unit-economy", withAuth(handleUnitEconomy(calcService, l)))
	mux.Handle("GET /access/calc/requests", withAuth(handleListRequests(calcService, l)))
	mux.Handle("DELETE /access/calc/requests/{id}", withAuth(handleDeleteRequest(calcService, l)))

	mux.Handle("GET /access/me", withAuth(handleUserMe()))

	return chain(mux,
		middleware.LoggerMiddleware(l),
	)
}

type authService interface {
	// Register user with at least one of email or phone.
	// Has to return apperrors.ErrLoginAlreadyExists on conflict and the
	// validation sentinel of the first violated rule otherwise
	Register(ctx context.Context, email string, phone string, password string) error

	// Login by email or phone, binding the session to the imprint.
	// Has to return apperrors.ErrIncorrectLoginOrPassword for both an
	// unknown login and a wrong password
	Login(ctx context.Context, login string, password string, imprint string) (models.TokenTriple, error)

	// Rotate session tokens using the update token.
	// Replays must fail with apperrors.ErrIncorrectToken
	RefreshPair(ctx context.Context, updateToken string) (models.TokenPair, error)

	// Drop the session of the token subject. Idempotent
	Logout(ctx context.Context, accessToken string, imprint string) error

	// Authenticate request: used by the auth middleware
	Auth(ctx context.Context, r *http.Request) (models.User, error)

	// Token extraction with the fixed cookie-first precedence
	AccessFromRequest(r *http.Request, bodyValue string) string
	UpdateFromRequest(r *http.Request, bodyValue string) string
	ImprintFromRequest(r *http.Request, bodyValue string) string

	// Set the auth cookies on the response
	SetTokenTripleToResponse(w http.ResponseWriter, triple models.TokenTriple)
}

type calcService interface {
	UnitEconomy(params calc.UnitEconomyParams) calc.UnitEconomyResult
	UnitEconomySaved(ctx context.Context, user models.User, name string, params calc.UnitEconomyParams) (calc.UnitEconomyResult, error)
	ListRequests(ctx context.Context, user models.User, kind models.RequestKind) ([]models.SavedRequest, error)
	DeleteRequest(ctx context.Context, user models.User, requestID int64) error
}
