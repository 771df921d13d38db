package session

import (
	"fmt"

	"github.com/golang-jwt/jwt/v4"

	"github.com/fastygo/streakmap/domain"
)

// Claims is the payload of the session cookie.
type Claims struct {
	SessionID string `json:"sid"`
	UserID    string `json:"user_id"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies session cookies with HMAC-SHA256.
type Tokens struct {
	secret []byte
	issuer string
}

func NewTokens(secret, issuer string) *Tokens {
	return &Tokens{secret: []byte(secret), issuer: issuer}
}

// Sign issues a token that expires together with the session.
func (t *Tokens) Sign(s *domain.Session) (string, error) {
	if s == nil || s.ID == "" || s.UserID == "" {
		return "", domain.ErrInvalidPayload
	}
	claims := Claims{
		SessionID: s.ID,
		UserID:    s.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   s.UserID,
			IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Parse verifies the signature, issuer and expiry of a token.
func (t *Tokens) Parse(token string) (*Claims, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}

	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, domain.WrapError(domain.ErrCodeUnauthorized, "invalid session token", err)
	}
	if !claims.VerifyIssuer(t.issuer, true) {
		return nil, domain.NewError(domain.ErrCodeUnauthorized, "unexpected token issuer")
	}
	if claims.SessionID == "" || claims.UserID == "" {
		return nil, domain.NewError(domain.ErrCodeUnauthorized, fmt.Sprintf("token for %q carries no session", claims.Subject))
	}
	return claims, nil
}

// Verify parses a token and returns the session and user it was issued for.
func (t *Tokens) Verify(token string) (string, string, error) {
	claims, err := t.Parse(token)
	if err != nil {
		return "", "", err
	}
	return claims.SessionID, claims.UserID, nil
}
