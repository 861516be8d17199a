package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PickAim/jarvis-backend/internal/service/auth/tokenmanager"
)

func newTestHasher(t *testing.T, secret string) PBKDF2Hasher {
	t.Helper()

	m, err := tokenmanager.New(tokenmanager.Config{SecretKey: secret})
	require.NoError(t, err)

	return NewPBKDF2Hasher(m)
}

func Test_PBKDF2Hasher(t *testing.T) {
	t.Parallel()

	h := newTestHasher(t, "test-secret-key")

	t.Run("hash and verify ok", func(t *testing.T) {
		record, err := h.Hash("Valid123!pass")

		require.NoError(t, err)
		assert.NotEmpty(t, record)
		assert.True(t, h.Verify("Valid123!pass", record))
	})

	t.Run("same password hashes differently", func(t *testing.T) {
		first, err := h.Hash("Valid123!pass")
		require.NoError(t, err)
		second, err := h.Hash("Valid123!pass")
		require.NoError(t, err)

		assert.NotEqual(t, first, second, "salt must randomize the record")
	})

	t.Run("wrong password fails", func(t *testing.T) {
		record, err := h.Hash("Valid123!pass")
		require.NoError(t, err)

		assert.False(t, h.Verify("Wrong123!pass", record))
	})

	t.Run("tampered record fails", func(t *testing.T) {
		record, err := h.Hash("Valid123!pass")
		require.NoError(t, err)

		tampered := []byte(record)
		last := len(tampered) - 1
		if tampered[last] == 'A' {
			tampered[last] = 'B'
		} else {
			tampered[last] = 'A'
		}

		assert.False(t, h.Verify("Valid123!pass", string(tampered)), "modified record must not verify")
	})

	t.Run("record signed with other key fails", func(t *testing.T) {
		other := newTestHasher(t, "other-secret-key")

		record, err := other.Hash("Valid123!pass")
		require.NoError(t, err)

		assert.False(t, h.Verify("Valid123!pass", record))
	})

	t.Run("garbage record fails", func(t *testing.T) {
		assert.False(t, h.Verify("Valid123!pass", "not-a-record"))
	})
}
