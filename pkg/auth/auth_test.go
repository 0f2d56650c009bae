package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	m := NewTokenManager("secret", "restaurant-api", 0, nil)
	token, issued, err := m.Issue(1, "alice", "user")
	require.NoError(t, err)

	claims, err := m.Parse(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "1", claims.Subject)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, issued.ID, claims.ID)
	assert.NotEmpty(t, claims.ID)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(1), id)
	assert.Equal(t, DefaultTokenTTL, claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time))
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret", "", time.Hour, nil).Issue(1, "alice", "user")
	require.NoError(t, err)

	_, err = NewTokenManager("other", "", time.Hour, nil).Parse(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewTokenManager("secret", "", time.Hour, nil)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := m.Issue(1, "alice", "user")
	require.NoError(t, err)

	_, err = m.Parse(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{Username: "alice", RegisteredClaims: jwt.RegisteredClaims{Subject: "1"}}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenManager("secret", "", time.Hour, nil).Parse(context.Background(), unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	bl := NewMemoryBlacklist()
	m := NewTokenManager("secret", "", time.Hour, bl)
	token, _, err := m.Issue(7, "bob", "restaurant_owner")
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, token))
	assert.Equal(t, 1, bl.Len())

	_, err = m.Parse(ctx, token)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestMemoryBlacklistExpiry(t *testing.T) {
	ctx := context.Background()
	bl := NewMemoryBlacklist()
	require.NoError(t, bl.AddToBlacklist(ctx, "old", time.Now().Add(-time.Minute)))
	require.NoError(t, bl.AddToBlacklist(ctx, "live", time.Now().Add(time.Minute)))

	assert.False(t, bl.IsBlacklisted(ctx, "old"))
	assert.True(t, bl.IsBlacklisted(ctx, "live"))
	assert.False(t, bl.IsBlacklisted(ctx, "missing"))

	bl.Cleanup()
	assert.Equal(t, 1, bl.Len())
}

func TestNewBlacklistFallsBackToMemory(t *testing.T) {
	_, ok := NewBlacklist(RedisBlacklist, nil).(*TokenBlacklist)
	assert.True(t, ok)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "wrong"))
	assert.False(t, CheckPassword("not-a-hash", "s3cret"))
}
