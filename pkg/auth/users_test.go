package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUsers(t *testing.T) {
	t.Run("parses entries with and without email", func(t *testing.T) {
		store, err := ParseUsers("alice:wonderland:alice@example.com, bob:builder")
		require.NoError(t, err)
		assert.Equal(t, 2, store.Len())

		alice, ok := store.Lookup("alice")
		require.True(t, ok)
		assert.Equal(t, "alice@example.com", alice.Email)
		assert.NotEmpty(t, alice.ID)

		bob, ok := store.Lookup("bob")
		require.True(t, ok)
		assert.Equal(t, "bob@triforge.local", bob.Email)
	})

	t.Run("user IDs are stable across parses", func(t *testing.T) {
		first, err := ParseUsers("alice:wonderland")
		require.NoError(t, err)
		second, err := ParseUsers("alice:changed-password")
		require.NoError(t, err)

		a1, _ := first.Lookup("alice")
		a2, _ := second.Lookup("alice")
		assert.Equal(t, a1.ID, a2.ID)
	})

	t.Run("empty input yields an empty store", func(t *testing.T) {
		store, err := ParseUsers("   ")
		require.NoError(t, err)
		assert.Zero(t, store.Len())
	})

	t.Run("rejects entries without a password", func(t *testing.T) {
		_, err := ParseUsers("alice")
		assert.Error(t, err)

		_, err = ParseUsers("alice:")
		assert.Error(t, err)
	})

	t.Run("rejects duplicate usernames", func(t *testing.T) {
		_, err := ParseUsers("alice:one,alice:two")
		assert.Error(t, err)
	})
}

func TestUserStoreAuthenticate(t *testing.T) {
	store, err := ParseUsers("alice:wonderland:alice@example.com")
	require.NoError(t, err)

	t.Run("accepts the configured password", func(t *testing.T) {
		user, ok := store.Authenticate("alice", "wonderland")
		require.True(t, ok)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		_, ok := store.Authenticate("alice", "through-the-looking-glass")
		assert.False(t, ok)
	})

	t.Run("rejects an unknown user", func(t *testing.T) {
		_, ok := store.Authenticate("mallory", "wonderland")
		assert.False(t, ok)
	})
}
