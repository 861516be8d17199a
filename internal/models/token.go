package models

import (
	"time"
)

// IssuedToken is the serialized signed token handed to the client together
// with the random part mirrored in server storage.
// ExpiresAt is zero for tokens without expiry (update tokens).
type IssuedToken struct {
	Value      string
	RandomPart string
	ExpiresAt  time.Time
}

// TokenPair issued on login and refresh
type TokenPair struct {
	Access IssuedToken
	Update IssuedToken
}

// TokenTriple is a pair plus the imprint the session is keyed by
type TokenTriple struct {
	TokenPair
	Imprint string
}
