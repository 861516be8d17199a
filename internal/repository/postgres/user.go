package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/PickAim/jarvis-backend/internal/apperrors"
	"github.com/PickAim/jarvis-backend/internal/models"
	"github.com/PickAim/jarvis-backend/internal/repository"
)

type UserRepo struct {
	DB DBTX
}

const createUserAndAccount = `-- name: CreateUserAndAccount
WITH new_user AS (
    INSERT INTO users (privilege)
    VALUES ($1)
    RETURNING id, created_at, privilege
), new_account AS (
    INSERT INTO accounts (user_id, email, phone, password_hash)
    SELECT id, $2, $3, $4 FROM new_user
)
SELECT id, created_at, privilege FROM new_user
`

func (r *UserRepo) CreateUserAndAccount(ctx context.Context, arg repository.CreateUserParams) (models.User, error) {
	rows, _ := r.DB.Query(ctx, createUserAndAccount, arg.Privilege, arg.Email, arg.Phone, arg.HashedPassword)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return user, apperrors.ErrLoginAlreadyExists
		}

		return user, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

const getAccount = `-- name: GetAccount
SELECT id, user_id, created_at, email, phone, password_hash FROM accounts
WHERE (email = $1 AND email <> '') OR (phone = $2 AND phone <> '')
`

func (r *UserRepo) GetAccount(ctx context.Context, email string, phone string) (models.Account, error) {
	rows, _ := r.DB.Query(ctx, getAccount, email, phone)
	account, err := pgx.CollectOneRow(rows, rowToAccount)

	switch {
	case err == nil:
		return account, nil
	case errors.Is(err, pgx.ErrNoRows):
		return account, apperrors.ErrUserNotFound
	default:
		return account, fmt.Errorf("db error: %w", err)
	}
}

const getUserByID = `-- name: GetUserByID
SELECT id, created_at, privilege FROM users
WHERE id = $1
`

func (r *UserRepo) GetUserByID(ctx context.Context, id int64) (models.User, error) {
	rows, _ := r.DB.Query(ctx, getUserByID, id)
	user, err := pgx.CollectOneRow(rows, rowToUser)

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func (r *UserRepo) GetUserByAccount(ctx context.Context, account models.Account) (models.User, error) {
	return r.GetUserByID(ctx, account.UserID)
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.CreatedAt, &u.Privilege)
	return u, err
}

func rowToAccount(row pgx.CollectableRow) (models.Account, error) {
	var a models.Account
	err := row.Scan(&a.ID, &a.UserID, &a.CreatedAt, &a.Email, &a.Phone, &a.HashedPassword)
	return a, err
}
