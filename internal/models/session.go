package models

import (
	"time"

	"github.com/google/uuid"
)

// TokenKind of an issued token.
// Basic tokens carry arbitrary claims (used for password hash records)
// and never identify a session.
type TokenKind string

const (
	TokenKindAccess TokenKind = "access"
	TokenKindUpdate TokenKind = "update"
	TokenKindBasic  TokenKind = "basic"
)

// Session is one device slot of a user: the server side of a token pair.
// Only random parts of issued tokens are stored, never tokens themselves.
// At most one session exists per (user, imprint).
type Session struct {
	ID        uuid.UUID
	UserID    int64
	Imprint   string
	AccessRnd string
	UpdateRnd string
	CreatedAt time.Time
	UpdatedAt time.Time
}
