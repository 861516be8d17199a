package integration

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stretchr/testify/require"

	"github.com/PickAim/jarvis-backend/internal/handlers"
	"github.com/PickAim/jarvis-backend/internal/logger"
	"github.com/PickAim/jarvis-backend/internal/repository/postgres"
	"github.com/PickAim/jarvis-backend/internal/service/auth"
	"github.com/PickAim/jarvis-backend/internal/service/auth/tokenmanager"
	"github.com/PickAim/jarvis-backend/internal/service/calc"
	"github.com/PickAim/jarvis-backend/internal/testutil"
)

type Services struct {
	AuthService *auth.AuthService
	CalcService *calc.CalcService
	Storage     *postgres.Storage
}

// Create db transaction and run the whole service over that connection
// (one connection cause one transaction). Rollback when the test stops,
// so the database remains unchanged between tests.
func RunTx(dbpool *pgxpool.Pool, t *testing.T, fn func(srvURL string, services Services)) {
	testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
		storage := postgres.NewStorage(tx)

		tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: "test-secret"})
		require.NoError(t, err, "token manager should be created without errors")

		as, err := auth.NewService(auth.Config{}, tokenManager, storage)
		require.NoError(t, err, "auth service starting error", err)

		cs := calc.NewService(nil, storage)

		// Complete all together as router
		router := handlers.NewRouter(as, cs, logger.NewNoOp())

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(srv.URL, Services{
			AuthService: as,
			CalcService: cs,
			Storage:     storage,
		})
	})
}
