package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/PickAim/jarvis-backend/internal/apperrors"
	"github.com/PickAim/jarvis-backend/internal/models"
)

type SessionRepo struct {
	DB DBTX
}

const saveAllTokens = `-- name: SaveAllTokens
INSERT INTO sessions (id, user_id, imprint, access_rnd, update_rnd)
VALUES ($1, $2, $3, $4, $5)
`

func (r *SessionRepo) SaveAllTokens(ctx context.Context, accessRnd string, updateRnd string, imprint string, userID int64) error {
	_, err := r.DB.Exec(ctx, saveAllTokens, uuid.New(), userID, imprint, accessRnd, updateRnd)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const checkAccessRndPart = `-- name: CheckAccessRndPart
SELECT EXISTS (
    SELECT 1 FROM sessions
    WHERE user_id = $1 AND imprint = $2 AND access_rnd = $3
)
`

const checkUpdateRndPart = `-- name: CheckUpdateRndPart
SELECT EXISTS (
    SELECT 1 FROM sessions
    WHERE user_id = $1 AND imprint = $2 AND update_rnd = $3
)
`

func (r *SessionRepo) CheckTokenRandPart(ctx context.Context, rnd string, userID int64, imprint string, kind models.TokenKind) (bool, error) {
	query, err := queryForKind(kind, checkAccessRndPart, checkUpdateRndPart)
	if err != nil {
		return false, err
	}

	var exists bool
	err = r.DB.QueryRow(ctx, query, userID, imprint, rnd).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

const checkAccessExist = `-- name: CheckAccessExist
SELECT EXISTS (
    SELECT 1 FROM sessions
    WHERE user_id = $1 AND imprint = $2 AND access_rnd <> ''
)
`

const checkUpdateExist = `-- name: CheckUpdateExist
SELECT EXISTS (
    SELECT 1 FROM sessions
    WHERE user_id = $1 AND imprint = $2 AND update_rnd <> ''
)
`

func (r *SessionRepo) CheckTokenExist(ctx context.Context, userID int64, imprint string, kind models.TokenKind) (bool, error) {
	query, err := queryForKind(kind, checkAccessExist, checkUpdateExist)
	if err != nil {
		return false, err
	}

	var exists bool
	err = r.DB.QueryRow(ctx, query, userID, imprint).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

const updateSessionTokens = `-- name: UpdateSessionTokens
UPDATE sessions
SET access_rnd = $3, update_rnd = $4, updated_at = now()
WHERE user_id = $1 AND update_rnd = $2
RETURNING id
`

// Rotate the session matched by the old update random part.
// A missed match means the token was rotated or revoked already:
// replays must fail.
func (r *SessionRepo) UpdateSessionTokens(ctx context.Context, userID int64, oldUpdateRnd string, newAccessRnd string, newUpdateRnd string) error {
	rows, _ := r.DB.Query(ctx, updateSessionTokens, userID, oldUpdateRnd, newAccessRnd, newUpdateRnd)
	_, err := pgx.CollectOneRow(rows, pgx.RowTo[uuid.UUID])

	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("repo error: %w", apperrors.ErrIncorrectToken)
	default:
		return fmt.Errorf("db error: %w", err)
	}
}

const updateSessionTokensByImprint = `-- name: UpdateSessionTokensByImprint
UPDATE sessions
SET access_rnd = $1, update_rnd = $2, updated_at = now()
WHERE imprint = $3 AND user_id = $4
`

func (r *SessionRepo) UpdateSessionTokensByImprint(ctx context.Context, newAccessRnd string, newUpdateRnd string, imprint string, userID int64) error {
	_, err := r.DB.Exec(ctx, updateSessionTokensByImprint, newAccessRnd, newUpdateRnd, imprint, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

const deleteTokensForUser = `-- name: DeleteTokensForUser
DELETE FROM sessions
WHERE user_id = $1 AND imprint = $2
`

// Delete is naturally idempotent: removing an absent session is fine
func (r *SessionRepo) DeleteTokensForUser(ctx context.Context, userID int64, imprint string) error {
	_, err := r.DB.Exec(ctx, deleteTokensForUser, userID, imprint)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func queryForKind(kind models.TokenKind, accessQuery string, updateQuery string) (string, error) {
	switch kind {
	case models.TokenKindAccess:
		return accessQuery, nil
	case models.TokenKindUpdate:
		return updateQuery, nil
	default:
		return "", fmt.Errorf("%w: token kind %q never identifies a session", apperrors.ErrIncorrectToken, kind)
	}
}
