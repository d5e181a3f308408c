package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService("test-secret", "triforge-backend", []string{"triforge-api"}, 30*time.Minute, 7*24*time.Hour)
}

func testAlice() User {
	return User{
		ID:       "2ae79764-3cb9-5c72-b84e-bce4ba0e5b39",
		Username: "alice",
		Email:    "alice@example.com",
	}
}

func TestJWTServiceRoundTrip(t *testing.T) {
	svc := newTestService()

	t.Run("access token validates with its claims", func(t *testing.T) {
		token, err := svc.GenerateAccessToken(testAlice())
		require.NoError(t, err)

		claims, err := svc.ValidateAccessToken(token)
		require.NoError(t, err)
		assert.Equal(t, testAlice().ID, claims.UserID)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, "alice@example.com", claims.Email)
		assert.Equal(t, TokenTypeAccess, claims.TokenType)
		assert.Equal(t, "triforge-backend", claims.Issuer)
	})

	t.Run("refresh token is rejected as an access token", func(t *testing.T) {
		token, err := svc.GenerateRefreshToken(testAlice())
		require.NoError(t, err)

		_, err = svc.ValidateAccessToken(token)
		assert.ErrorIs(t, err, ErrWrongTokenType)

		claims, err := svc.ValidateRefreshToken(token)
		require.NoError(t, err)
		assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	})

	t.Run("access token is rejected as a refresh token", func(t *testing.T) {
		token, err := svc.GenerateAccessToken(testAlice())
		require.NoError(t, err)

		_, err = svc.ValidateRefreshToken(token)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})

	t.Run("issued pair carries the access TTL in seconds", func(t *testing.T) {
		pair, err := svc.IssuePair(testAlice())
		require.NoError(t, err)
		assert.Equal(t, int64(1800), pair.ExpiresIn)

		_, err = svc.ValidateAccessToken(pair.AccessToken)
		assert.NoError(t, err)
		_, err = svc.ValidateRefreshToken(pair.RefreshToken)
		assert.NoError(t, err)
	})

	t.Run("tampered token fails validation", func(t *testing.T) {
		token, err := svc.GenerateAccessToken(testAlice())
		require.NoError(t, err)

		other := NewJWTService("other-secret", "triforge-backend", []string{"triforge-api"}, time.Minute, time.Hour)
		_, err = other.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("bearer prefix is stripped", func(t *testing.T) {
		bob := User{ID: "c0bdfbb7-1ab3-5452-a26c-9455e0581c1e", Username: "bob", Email: "bob@example.com"}
		token, err := svc.GenerateAccessToken(bob)
		require.NoError(t, err)

		claims, err := svc.ValidateToken("Bearer " + token)
		require.NoError(t, err)
		assert.Equal(t, bob.ID, claims.UserID)
	})
}

func TestJWTValidatorConfig(t *testing.T) {
	t.Run("rejects missing secret for HS256", func(t *testing.T) {
		_, err := NewJWTValidator(JWTConfig{SigningMethod: "HS256"})
		assert.Error(t, err)
	})

	t.Run("rejects unsupported signing method", func(t *testing.T) {
		_, err := NewJWTValidator(JWTConfig{SigningMethod: "none"})
		assert.Error(t, err)
	})

	t.Run("rejects token from another issuer", func(t *testing.T) {
		issued := NewJWTService("secret", "someone-else", []string{"triforge-api"}, time.Minute, time.Hour)
		token, err := issued.GenerateAccessToken(testAlice())
		require.NoError(t, err)

		svc := newTestService()
		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})
}

func TestUserContext(t *testing.T) {
	t.Run("round trips through context", func(t *testing.T) {
		ctx := SetUserInContext(context.Background(), &UserContext{UserID: "alice", Username: "alice"})

		user, err := GetUserFromContext(ctx)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.UserID)
	})

	t.Run("missing user yields an error", func(t *testing.T) {
		_, err := GetUserFromContext(context.Background())
		assert.Error(t, err)
	})
}

func TestSlidingWindowLimiter(t *testing.T) {
	ctx := context.Background()

	t.Run("allows requests within the limit", func(t *testing.T) {
		limiter := NewSlidingWindowLimiter(3, time.Minute)

		for i := 0; i < 3; i++ {
			allowed, err := limiter.Allow(ctx, "user:alice")
			require.NoError(t, err)
			assert.True(t, allowed)
		}
	})

	t.Run("blocks requests over the limit", func(t *testing.T) {
		limiter := NewSlidingWindowLimiter(2, time.Minute)

		limiter.Allow(ctx, "user:bob")
		limiter.Allow(ctx, "user:bob")

		allowed, err := limiter.Allow(ctx, "user:bob")
		require.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("keys are isolated", func(t *testing.T) {
		limiter := NewSlidingWindowLimiter(1, time.Minute)

		limiter.Allow(ctx, "user:carol")

		allowed, err := limiter.Allow(ctx, "user:dave")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("reset clears the window", func(t *testing.T) {
		limiter := NewSlidingWindowLimiter(1, time.Minute)

		limiter.Allow(ctx, "user:erin")
		require.NoError(t, limiter.Reset(ctx, "user:erin"))

		allowed, err := limiter.Allow(ctx, "user:erin")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("hits expire as the window slides", func(t *testing.T) {
		limiter := NewSlidingWindowLimiter(1, time.Minute)
		current := time.Now()
		limiter.now = func() time.Time { return current }

		allowed, _ := limiter.Allow(ctx, "user:frank")
		require.True(t, allowed)
		allowed, _ = limiter.Allow(ctx, "user:frank")
		require.False(t, allowed)

		current = current.Add(61 * time.Second)

		allowed, err := limiter.Allow(ctx, "user:frank")
		require.NoError(t, err)
		assert.True(t, allowed)
	})
}
