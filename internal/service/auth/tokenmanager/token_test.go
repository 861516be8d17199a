package tokenmanager

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PickAim/jarvis-backend/internal/apperrors"
	"github.com/PickAim/jarvis-backend/internal/models"
)

func Test_Manager(t *testing.T) {
	t.Parallel()

	newManager := func(t *testing.T, accessTTL time.Duration) *Manager {
		m, err := New(Config{SecretKey: "test-secret-key", AccessTTL: accessTTL})
		require.NoError(t, err, "manager should be created without errors")
		return m
	}

	t.Run("new defaults", func(t *testing.T) {
		m, err := New(Config{SecretKey: "secret"})
		require.NoError(t, err)

		require.Equal(t, defaultAccessTokenTTL, m.accessTTL, "default access TTL should be set")
		require.Equal(t, defaultSigningMethod, m.codec.alg.Alg(), "default signing method should be set")
	})

	t.Run("new fails without secret", func(t *testing.T) {
		_, err := New(Config{})
		require.Error(t, err)
	})

	t.Run("CreateAccessToken", func(t *testing.T) {
		m := newManager(t, 5*time.Minute)

		token, err := m.CreateAccessToken(42)
		require.NoError(t, err)

		require.NotEmpty(t, token.Value)
		require.Len(t, token.RandomPart, accessRandomPartLen)
		require.WithinDuration(t, time.Now().Add(5*time.Minute), token.ExpiresAt, time.Second)

		claims, err := m.Decode(token.Value)
		require.NoError(t, err, "own token should decode without errors")

		userID, err := m.UserID(claims)
		require.NoError(t, err)
		assert.Equal(t, int64(42), userID)

		kind, err := m.TokenKind(claims)
		require.NoError(t, err)
		assert.Equal(t, models.TokenKindAccess, kind)

		rnd, err := m.RandomPart(claims)
		require.NoError(t, err)
		assert.Equal(t, token.RandomPart, rnd)

		assert.False(t, m.IsExpired(claims), "fresh access token should not be expired")
	})

	t.Run("CreateUpdateToken has no expiry", func(t *testing.T) {
		m := newManager(t, 5*time.Minute)

		token, err := m.CreateUpdateToken(42)
		require.NoError(t, err)

		require.Len(t, token.RandomPart, updateRandomPartLen)
		require.True(t, token.ExpiresAt.IsZero(), "update token should not carry expiry")

		claims, err := m.Decode(token.Value)
		require.NoError(t, err)
		require.False(t, m.IsExpired(claims), "token without exp claim never expires")
	})

	t.Run("CreateImprintToken", func(t *testing.T) {
		m := newManager(t, 5*time.Minute)

		imprint, err := m.CreateImprintToken()
		require.NoError(t, err)
		require.Len(t, imprint, imprintLen)

		// Imprint is a bare random string, not a signed token
		_, err = m.Decode(imprint)
		require.Error(t, err)
	})

	t.Run("expiry monotonicity", func(t *testing.T) {
		t.Run("already expired", func(t *testing.T) {
			m := newManager(t, -time.Second)

			token, err := m.CreateAccessToken(1)
			require.NoError(t, err)

			claims, err := m.Decode(token.Value)
			require.NoError(t, err, "expired token should still decode")
			require.True(t, m.IsExpired(claims), "token with negative TTL should be expired")
		})

		t.Run("not expired for an hour", func(t *testing.T) {
			m := newManager(t, time.Hour)

			token, err := m.CreateAccessToken(1)
			require.NoError(t, err)

			claims, err := m.Decode(token.Value)
			require.NoError(t, err)
			require.False(t, m.IsExpired(claims))
		})
	})

	t.Run("round trip arbitrary claims", func(t *testing.T) {
		m := newManager(t, 5*time.Minute)

		token, err := m.CreateBasicToken(map[string]any{"dig": "digest", "salt": "salt", "iters": int64(100)}, 0)
		require.NoError(t, err)

		claims, err := m.Decode(token)
		require.NoError(t, err)
		assert.Equal(t, "digest", claims["dig"])
		assert.Equal(t, "salt", claims["salt"])

		iters, err := claimToInt64(claims["iters"])
		require.NoError(t, err)
		assert.Equal(t, int64(100), iters)

		kind, err := m.TokenKind(claims)
		require.NoError(t, err)
		assert.Equal(t, models.TokenKindBasic, kind)
	})

	t.Run("basic token with random part", func(t *testing.T) {
		m := newManager(t, 5*time.Minute)

		token, err := m.CreateBasicToken(map[string]any{"k": "v"}, 16)
		require.NoError(t, err)

		claims, err := m.Decode(token)
		require.NoError(t, err)

		rnd, err := m.RandomPart(claims)
		require.NoError(t, err)
		require.Len(t, rnd, 16)
	})

	t.Run("tamper detection", func(t *testing.T) {
		m := newManager(t, 5*time.Minute)

		token, err := m.CreateAccessToken(42)
		require.NoError(t, err)

		// Flip a byte in the signature segment
		parts := strings.Split(token.Value, ".")
		require.Len(t, parts, 3)
		sig := []byte(parts[2])
		if sig[0] == 'A' {
			sig[0] = 'B'
		} else {
			sig[0] = 'A'
		}
		tampered := parts[0] + "." + parts[1] + "." + string(sig)

		_, err = m.Decode(tampered)
		require.Error(t, err)
		require.ErrorIs(t, err, apperrors.ErrInvalidSignature)
	})

	t.Run("reject token signed with none alg", func(t *testing.T) {
		m := newManager(t, 5*time.Minute)

		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{claimUserID: 42})
		value, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = m.Decode(value)
		require.Error(t, err, "token with none alg must fail to decode")
		require.ErrorIs(t, err, apperrors.ErrInvalidSignature)
	})

	t.Run("missing claims are errors", func(t *testing.T) {
		m := newManager(t, 5*time.Minute)
		claims := map[string]any{}

		_, err := m.UserID(claims)
		require.ErrorIs(t, err, apperrors.ErrMissingClaim)

		_, err = m.TokenKind(claims)
		require.ErrorIs(t, err, apperrors.ErrMissingClaim)

		_, err = m.RandomPart(claims)
		require.ErrorIs(t, err, apperrors.ErrMissingClaim)
	})
}

func Test_RandomString(t *testing.T) {
	t.Parallel()

	t.Run("length and alphabet", func(t *testing.T) {
		s, err := randomString(245)
		require.NoError(t, err)
		require.Len(t, s, 245)

		for _, r := range s {
			require.Contains(t, randomAlphabet, string(r))
		}
	})

	t.Run("no duplicates in 10000 values", func(t *testing.T) {
		seen := make(map[string]struct{}, 10000)
		for range 10000 {
			s, err := randomString(60)
			require.NoError(t, err)

			_, ok := seen[s]
			require.False(t, ok, "duplicate random part generated")
			seen[s] = struct{}{}
		}
	})
}
