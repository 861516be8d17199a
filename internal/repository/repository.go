package repository

import (
	"context"

	"github.com/PickAim/jarvis-backend/internal/models"
)

type CreateUserParams struct {
	Email          string
	Phone          string
	HashedPassword string
	Privilege      models.Privilege
}

// User and account repository interface
type UserRepo interface {
	// Create user together with its account in one statement batch.
	// If an account with the same email or phone exists already
	// has to return apperrors.ErrLoginAlreadyExists
	CreateUserAndAccount(ctx context.Context, arg CreateUserParams) (models.User, error)

	// Get account matching email or phone (either may be empty).
	// If no account found must return apperrors.ErrUserNotFound
	GetAccount(ctx context.Context, email string, phone string) (models.Account, error)

	// Get user by its account or id
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByAccount(ctx context.Context, account models.Account) (models.User, error)
	GetUserByID(ctx context.Context, userID int64) (models.User, error)
}

// Session repository interface: server side state of issued token pairs.
// Sessions are keyed by (user, imprint); only random parts are stored.
type SessionRepo interface {
	// Save a new session row with both random parts
	SaveAllTokens(ctx context.Context, accessRnd string, updateRnd string, imprint string, userID int64) error

	// Report whether a live session holds the random part for the token kind
	CheckTokenRandPart(ctx context.Context, rnd string, userID int64, imprint string, kind models.TokenKind) (bool, error)

	// Report whether any session exists for (user, imprint) with the token kind set
	CheckTokenExist(ctx context.Context, userID int64, imprint string, kind models.TokenKind) (bool, error)

	// Replace both random parts of the session matched by the old update
	// random part. Must return apperrors.ErrIncorrectToken if no session
	// matches: a rotated or revoked update token must not rotate again.
	UpdateSessionTokens(ctx context.Context, userID int64, oldUpdateRnd string, newAccessRnd string, newUpdateRnd string) error

	// Replace both random parts of the (user, imprint) session
	UpdateSessionTokensByImprint(ctx context.Context, newAccessRnd string, newUpdateRnd string, imprint string, userID int64) error

	// Delete every session of the user bound to the imprint.
	// Deleting an absent session is not an error.
	DeleteTokensForUser(ctx context.Context, userID int64, imprint string) error
}

// Saved calculation request repository interface.
// Every request kind shares the same save, list and delete capability set.
type RequestRepo interface {
	SaveRequest(ctx context.Context, request models.SavedRequest) (models.SavedRequest, error)
	ListRequests(ctx context.Context, userID int64, kind models.RequestKind) ([]models.SavedRequest, error)

	// If request not found must return apperrors.ErrRequestNotFound
	GetRequest(ctx context.Context, id int64) (models.SavedRequest, error)
	DeleteRequest(ctx context.Context, id int64) error
}

// Storage aggregates repositories and provides the unit of work.
// Every logical operation that mutates more than one row runs inside InTx.
type Storage interface {
	User() UserRepo
	Session() SessionRepo
	Request() RequestRepo

	// Run fn in one db transaction: commit on nil, rollback otherwise
	InTx(ctx context.Context, fn func(Storage) error) error
}
