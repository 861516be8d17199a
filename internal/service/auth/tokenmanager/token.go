package tokenmanager

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/PickAim/jarvis-backend/internal/apperrors"
	"github.com/PickAim/jarvis-backend/internal/models"
)

const (
	defaultAccessTokenTTL = 5 * time.Minute
	defaultSigningMethod  = "HS256"

	accessRandomPartLen = 60
	updateRandomPartLen = 245
	imprintLen          = 10
)

// Claim keys shared by every token the manager issues
const (
	claimUserID     = "uid"
	claimTokenKind  = "typ"
	claimRandomPart = "rnd"
	claimExpiresAt  = "exp"
	claimTokenID    = "jti"
)

// Manager config with sensible defaults
type Config struct {
	// Secret key to sign token payloads
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set than default is used
	Alg string

	// Access token lifetime
	// If not set than default is used
	AccessTTL time.Duration
}

// Manager issues access, update, imprint and basic tokens with their
// specific claim sets and extracts fields back from decoded claims.
type Manager struct {
	codec     Codec
	accessTTL time.Duration
}

func New(cfg Config) (*Manager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}

	if cfg.AccessTTL == 0 {
		cfg.AccessTTL = defaultAccessTokenTTL
	}

	return &Manager{
		codec:     NewCodec(cfg.SecretKey, cfg.Alg),
		accessTTL: cfg.AccessTTL,
	}, nil
}

// CreateAccessToken issues a short lived access token for the user.
// Expiry has second precision.
func (m *Manager) CreateAccessToken(userID int64) (models.IssuedToken, error) {
	var token models.IssuedToken

	rnd, err := randomString(accessRandomPartLen)
	if err != nil {
		return token, err
	}

	expiresAt := time.Now().Add(m.accessTTL).Truncate(time.Second)
	value, err := m.codec.Encode(map[string]any{
		claimUserID:     userID,
		claimTokenKind:  string(models.TokenKindAccess),
		claimRandomPart: rnd,
		claimExpiresAt:  expiresAt.Unix(),
		claimTokenID:    uuid.NewString(),
	})
	if err != nil {
		return token, err
	}

	return models.IssuedToken{Value: value, RandomPart: rnd, ExpiresAt: expiresAt}, nil
}

// CreateUpdateToken issues a long lived update token. No expiry claim.
func (m *Manager) CreateUpdateToken(userID int64) (models.IssuedToken, error) {
	var token models.IssuedToken

	rnd, err := randomString(updateRandomPartLen)
	if err != nil {
		return token, err
	}

	value, err := m.codec.Encode(map[string]any{
		claimUserID:     userID,
		claimTokenKind:  string(models.TokenKindUpdate),
		claimRandomPart: rnd,
		claimTokenID:    uuid.NewString(),
	})
	if err != nil {
		return token, err
	}

	return models.IssuedToken{Value: value, RandomPart: rnd}, nil
}

// CreateImprintToken returns a bare random string identifying a device slot.
// It is not signed: the imprint is itself the random part.
func (m *Manager) CreateImprintToken() (string, error) {
	return randomString(imprintLen)
}

// CreateBasicToken signs arbitrary claims. Used for password hash records.
// randLen > 0 injects a random part claim of that length.
func (m *Manager) CreateBasicToken(claims map[string]any, randLen int) (string, error) {
	payload := make(map[string]any, len(claims)+2)
	for k, v := range claims {
		payload[k] = v
	}
	payload[claimTokenKind] = string(models.TokenKindBasic)

	if randLen > 0 {
		rnd, err := randomString(randLen)
		if err != nil {
			return "", err
		}
		payload[claimRandomPart] = rnd
	}

	return m.codec.Encode(payload)
}

// Decode verifies the signature and returns the claims map
func (m *Manager) Decode(tokenString string) (map[string]any, error) {
	return m.codec.Decode(tokenString)
}

// IsExpired reports whether the claims carry an expiry in the past.
// Claims without expiry (update and basic tokens) never expire.
func (m *Manager) IsExpired(claims map[string]any) bool {
	raw, ok := claims[claimExpiresAt]
	if !ok {
		return false
	}

	sec, err := claimToInt64(raw)
	if err != nil {
		return true
	}

	return time.Now().After(time.Unix(sec, 0))
}

// UserID extracts the subject user id claim
func (m *Manager) UserID(claims map[string]any) (int64, error) {
	raw, ok := claims[claimUserID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", apperrors.ErrMissingClaim, claimUserID)
	}
	return claimToInt64(raw)
}

// TokenKind extracts the token kind claim
func (m *Manager) TokenKind(claims map[string]any) (models.TokenKind, error) {
	raw, ok := claims[claimTokenKind].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s", apperrors.ErrMissingClaim, claimTokenKind)
	}
	return models.TokenKind(raw), nil
}

// RandomPart extracts the random part claim
func (m *Manager) RandomPart(claims map[string]any) (string, error) {
	raw, ok := claims[claimRandomPart].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s", apperrors.ErrMissingClaim, claimRandomPart)
	}
	return raw, nil
}

// Numeric claims arrive as float64 after a JSON round trip but may still be
// int64 or json.Number when the claims map never left the process.
func claimToInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case json.Number:
		return v.Int64()
	default:
		return 0, fmt.Errorf("%w: unexpected numeric claim type %T", apperrors.ErrMissingClaim, raw)
	}
}
