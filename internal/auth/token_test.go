package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager(t *testing.T) {
	manager := NewTokenManager("test-secret", 60)

	t.Run("round trip preserves subject and tenant", func(t *testing.T) {
		token, expiresAt, err := manager.GenerateToken("user-1", "tenant-1")
		require.NoError(t, err)
		assert.False(t, expiresAt.IsZero())

		claims, err := manager.ParseToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.Subject)
		assert.Equal(t, "tenant-1", claims.TenantID)
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		other := NewTokenManager("other-secret", 60)
		token, _, err := other.GenerateToken("user-1", "tenant-1")
		require.NoError(t, err)

		_, err = manager.ParseToken(token)
		assert.Error(t, err)
	})

	t.Run("rejects a token without a tenant", func(t *testing.T) {
		token, _, err := manager.GenerateToken("user-1", "")
		require.NoError(t, err)

		_, err = manager.ParseToken(token)
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := manager.ParseToken("not-a-token")
		assert.Error(t, err)
	})
}
