package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	"github.com/PickAim/jarvis-backend/internal/service/auth/tokenmanager"
)

// Interface to create or verify user password hashes
type PasswordHasher interface {
	// Generate stored hash record from password
	Hash(password string) (string, error)

	// Verify user provided password against the stored record
	// Must be protected against timing attacks
	Verify(password string, stored string) bool
}

const (
	pbkdf2Iterations = 100_000
	pbkdf2KeyLen     = 32
	pbkdf2SaltLen    = 16
)

// PBKDF2Hasher derives a salted digest and packages {digest, salt, iters,
// klen} as a signed basic token, so the stored password record reuses the
// same tamper evidence as session tokens.
type PBKDF2Hasher struct {
	tokens *tokenmanager.Manager
}

func NewPBKDF2Hasher(tokens *tokenmanager.Manager) PBKDF2Hasher {
	return PBKDF2Hasher{tokens: tokens}
}

func (h PBKDF2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, pbkdf2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("error while generating salt. Err: %w", err)
	}

	digest := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)

	return h.tokens.CreateBasicToken(map[string]any{
		"dig":   hex.EncodeToString(digest),
		"salt":  hex.EncodeToString(salt),
		"iters": pbkdf2Iterations,
		"klen":  pbkdf2KeyLen,
	}, 0)
}

// Verify fails closed: any decode or claim problem means mismatch
func (h PBKDF2Hasher) Verify(password string, stored string) bool {
	claims, err := h.tokens.Decode(stored)
	if err != nil {
		return false
	}

	digestHex, ok := claims["dig"].(string)
	if !ok {
		return false
	}
	saltHex, ok := claims["salt"].(string)
	if !ok {
		return false
	}
	iters, ok := claimNumber(claims["iters"])
	if !ok || iters <= 0 {
		return false
	}
	klen, ok := claimNumber(claims["klen"])
	if !ok || klen <= 0 {
		return false
	}

	digest, err := hex.DecodeString(digestHex)
	if err != nil {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}

	recomputed := pbkdf2.Key([]byte(password), salt, iters, klen, sha256.New)

	return subtle.ConstantTimeCompare(digest, recomputed) == 1
}

func claimNumber(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
