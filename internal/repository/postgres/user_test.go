package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PickAim/jarvis-backend/internal/apperrors"
	"github.com/PickAim/jarvis-backend/internal/models"
	"github.com/PickAim/jarvis-backend/internal/repository"
	"github.com/PickAim/jarvis-backend/internal/testutil"
)

func Test_UserRepo(t *testing.T) {
	t.Parallel() // It's ok to run in parallel with other tests, but not with subtests

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	t.Run("create user with email ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}

			user, err := r.CreateUserAndAccount(t.Context(), repository.CreateUserParams{
				Email:          "user@example.com",
				HashedPassword: "hashedpassword123",
				Privilege:      models.PrivilegeBasic,
			})

			require.NoError(t, err)
			assert.NotZero(t, user.ID)
			assert.Equal(t, models.PrivilegeBasic, user.Privilege)
			assert.WithinDuration(t, time.Now(), user.CreatedAt, time.Second, "CreatedAt should be recent")
		})
	})

	t.Run("create user with phone ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}

			user, err := r.CreateUserAndAccount(t.Context(), repository.CreateUserParams{
				Phone:          "+79092865488",
				HashedPassword: "hashedpassword123",
				Privilege:      models.PrivilegeBasic,
			})

			require.NoError(t, err)
			assert.NotZero(t, user.ID)
		})
	})

	t.Run("create user with duplicated email fails", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}
			params := repository.CreateUserParams{
				Email:          "dup@example.com",
				HashedPassword: "hashedpassword123",
			}
			_, err := r.CreateUserAndAccount(t.Context(), params)
			require.NoError(t, err)

			_, err = r.CreateUserAndAccount(t.Context(), params)

			assert.ErrorIs(t, err, apperrors.ErrLoginAlreadyExists, "should return well known error")
		})
	})

	t.Run("create user with duplicated phone fails", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}
			params := repository.CreateUserParams{
				Phone:          "+79991234567",
				HashedPassword: "hashedpassword123",
			}
			_, err := r.CreateUserAndAccount(t.Context(), params)
			require.NoError(t, err)

			_, err = r.CreateUserAndAccount(t.Context(), params)

			assert.ErrorIs(t, err, apperrors.ErrLoginAlreadyExists, "should return well known error")
		})
	})

	t.Run("get account by email ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}
			created, err := r.CreateUserAndAccount(t.Context(), repository.CreateUserParams{
				Email:          "findme@example.com",
				HashedPassword: "hashedpassword123",
			})
			require.NoError(t, err)

			account, err := r.GetAccount(t.Context(), "findme@example.com", "")

			require.NoError(t, err)
			assert.Equal(t, created.ID, account.UserID)
			assert.Equal(t, "findme@example.com", account.Email)
			assert.Equal(t, "hashedpassword123", account.HashedPassword)
		})
	})

	t.Run("get account by phone ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}
			created, err := r.CreateUserAndAccount(t.Context(), repository.CreateUserParams{
				Phone:          "+79092860000",
				HashedPassword: "hashedpassword123",
			})
			require.NoError(t, err)

			account, err := r.GetAccount(t.Context(), "", "+79092860000")

			require.NoError(t, err)
			assert.Equal(t, created.ID, account.UserID)
			assert.Equal(t, "+79092860000", account.Phone)
		})
	})

	t.Run("get account with both logins empty not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}
			_, err := r.CreateUserAndAccount(t.Context(), repository.CreateUserParams{
				Email:          "present@example.com",
				HashedPassword: "hashedpassword123",
			})
			require.NoError(t, err)

			// Rows with empty email or phone must never match empty input
			_, err = r.GetAccount(t.Context(), "", "")

			assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
		})
	})

	t.Run("get account not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}

			_, err := r.GetAccount(t.Context(), "nobody@example.com", "")

			assert.ErrorIs(t, err, apperrors.ErrUserNotFound, "should return well known error")
		})
	})

	t.Run("get user by id ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}
			created, err := r.CreateUserAndAccount(t.Context(), repository.CreateUserParams{
				Email:          "byid@example.com",
				HashedPassword: "hashedpassword123",
				Privilege:      models.PrivilegeAdvanced,
			})
			require.NoError(t, err)

			got, err := r.GetUserByID(t.Context(), created.ID)

			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)
			assert.Equal(t, models.PrivilegeAdvanced, got.Privilege)
			assert.Equal(t, created.CreatedAt, got.CreatedAt)
		})
	})

	t.Run("get user by id not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}

			_, err := r.GetUserByID(t.Context(), 9_999_999)

			assert.ErrorIs(t, err, apperrors.ErrUserNotFound, "should return well known error")
		})
	})

	t.Run("get user by account ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := UserRepo{DB: tx}
			created, err := r.CreateUserAndAccount(t.Context(), repository.CreateUserParams{
				Email:          "byaccount@example.com",
				HashedPassword: "hashedpassword123",
			})
			require.NoError(t, err)
			account, err := r.GetAccount(t.Context(), "byaccount@example.com", "")
			require.NoError(t, err)

			got, err := r.GetUserByAccount(t.Context(), account)

			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)
		})
	})
}
