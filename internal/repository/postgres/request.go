package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/PickAim/jarvis-backend/internal/apperrors"
	"github.com/PickAim/jarvis-backend/internal/models"
)

type RequestRepo struct {
	DB DBTX
}

const saveRequest = `-- name: SaveRequest
INSERT INTO saved_requests (user_id, kind, name, payload)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, kind, name, payload, created_at
`

func (r *RequestRepo) SaveRequest(ctx context.Context, request models.SavedRequest) (models.SavedRequest, error) {
	rows, _ := r.DB.Query(ctx, saveRequest, request.UserID, request.Kind, request.Name, request.Payload)
	saved, err := pgx.CollectOneRow(rows, rowToRequest)
	if err != nil {
		return saved, fmt.Errorf("db error: %w", err)
	}
	return saved, nil
}

const listRequests = `-- name: ListRequests
SELECT id, user_id, kind, name, payload, created_at FROM saved_requests
WHERE user_id = $1 AND kind = $2
ORDER BY created_at DESC, id DESC
`

func (r *RequestRepo) ListRequests(ctx context.Context, userID int64, kind models.RequestKind) ([]models.SavedRequest, error) {
	rows, _ := r.DB.Query(ctx, listRequests, userID, kind)
	requests, err := pgx.CollectRows(rows, rowToRequest)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return requests, nil
}

const getRequest = `-- name: GetRequest
SELECT id, user_id, kind, name, payload, created_at FROM saved_requests
WHERE id = $1
`

func (r *RequestRepo) GetRequest(ctx context.Context, id int64) (models.SavedRequest, error) {
	rows, _ := r.DB.Query(ctx, getRequest, id)
	request, err := pgx.CollectOneRow(rows, rowToRequest)

	switch {
	case err == nil:
		return request, nil
	case errors.Is(err, pgx.ErrNoRows):
		return request, apperrors.ErrRequestNotFound
	default:
		return request, fmt.Errorf("db error: %w", err)
	}
}

const deleteRequest = `-- name: DeleteRequest
DELETE FROM saved_requests
WHERE id = $1
`

func (r *RequestRepo) DeleteRequest(ctx context.Context, id int64) error {
	_, err := r.DB.Exec(ctx, deleteRequest, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func rowToRequest(row pgx.CollectableRow) (models.SavedRequest, error) {
	var req models.SavedRequest
	err := row.Scan(&req.ID, &req.UserID, &req.Kind, &req.Name, &req.Payload, &req.CreatedAt)
	return req, err
}
