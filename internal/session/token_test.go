package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/streakmap/domain"
)

func TestTokens_RoundTrip(t *testing.T) {
	tokens := NewTokens("secret", "streakmap")
	now := time.Now()

	signed, err := tokens.Sign(&domain.Session{ID: "s1", UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)})
	require.NoError(t, err)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "s1", claims.SessionID)
	assert.Equal(t, "u1", claims.UserID)
}

func TestTokens_RejectsExpired(t *testing.T) {
	tokens := NewTokens("secret", "streakmap")
	now := time.Now()

	signed, err := tokens.Sign(&domain.Session{ID: "s1", UserID: "u1", CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)})
	require.NoError(t, err)

	_, err = tokens.Parse(signed)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestTokens_RejectsForeignSecretAndIssuer(t *testing.T) {
	now := time.Now()
	s := &domain.Session{ID: "s1", UserID: "u1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}

	foreign, err := NewTokens("other", "streakmap").Sign(s)
	require.NoError(t, err)
	_, err = NewTokens("secret", "streakmap").Parse(foreign)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))

	otherIssuer, err := NewTokens("secret", "someone-else").Sign(s)
	require.NoError(t, err)
	_, err = NewTokens("secret", "streakmap").Parse(otherIssuer)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestTokens_RejectsUnsignedAlgorithm(t *testing.T) {
	claims := Claims{SessionID: "s1", UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{Issuer: "streakmap"}}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokens("secret", "streakmap").Parse(unsigned)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnauthorized))
}

func TestTokens_SignRequiresSession(t *testing.T) {
	_, err := NewTokens("secret", "streakmap").Sign(&domain.Session{ID: "s1"})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}
