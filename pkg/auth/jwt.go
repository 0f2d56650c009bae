package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken token failed signature or claim checks
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenRevoked token was revoked by logout
	ErrTokenRevoked = errors.New("token has been revoked")
)

// DefaultTokenTTL lifetime of an issued token
const DefaultTokenTTL = 24 * time.Hour

// Claims token claims. Subject holds the decimal user id.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the subject back into a user id
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

// TokenManager issues, verifies and revokes HS256 tokens
type TokenManager struct {
	secret    []byte
	issuer    string
	ttl       time.Duration
	blacklist Blacklist
	now       func() time.Time
}

// NewTokenManager creates a manager; ttl <= 0 uses DefaultTokenTTL
func NewTokenManager(secret, issuer string, ttl time.Duration, blacklist Blacklist) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if blacklist == nil {
		blacklist = NewMemoryBlacklist()
	}
	return &TokenManager{
		secret:    []byte(secret),
		issuer:    issuer,
		ttl:       ttl,
		blacklist: blacklist,
		now:       time.Now,
	}
}

// Issue signs a token for the given account
func (m *TokenManager) Issue(userID uint, username, role string) (string, *Claims, error) {
	now := m.now()
	claims := &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return signed, claims, nil
}

// TTL token lifetime
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

func (m *TokenManager) parse(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}

// Parse verifies a token and rejects revoked ones
func (m *TokenManager) Parse(ctx context.Context, tokenString string) (*Claims, error) {
	claims, err := m.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if m.blacklist.IsBlacklisted(ctx, claims.ID) {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke blacklists a token until it would have expired
func (m *TokenManager) Revoke(ctx context.Context, tokenString string) error {
	claims, err := m.parse(tokenString)
	if err != nil {
		return err
	}
	return m.blacklist.AddToBlacklist(ctx, claims.ID, claims.ExpiresAt.Time)
}
