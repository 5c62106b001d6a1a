package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenType discriminates access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	// ErrMalformedToken covers unparseable tokens, bad signatures and
	// tokens missing the subject claim.
	ErrMalformedToken = errors.New("malformed token")
	// ErrTokenExpired means the token verified but its lifetime is over.
	// A token is valid strictly before its exp instant; at exp it is
	// already expired.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenTypeMismatch means a refresh token was presented where an
	// access token was expected, or vice versa.
	ErrTokenTypeMismatch = errors.New("token type mismatch")
)

// TokenManager issues and verifies signed HS256 tokens carrying exactly
// three trusted claims: sub, type and exp.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// Claims describes the token payload.
type Claims struct {
	TokenType TokenType `json:"type"`
	jwt.RegisteredClaims
}

// Generate builds and signs a token of the given type for the subject,
// using the TTL configured for that type.
func (tm *TokenManager) Generate(subject string, tokenType TokenType) (string, error) {
	ttl := tm.accessTTL
	if tokenType == TokenTypeRefresh {
		ttl = tm.refreshTTL
	}

	claims := &Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(tm.now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(tm.now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Decode verifies the token and returns its subject. Callers state which
// token type they expect; anything else is rejected so a refresh token can
// never be used for resource access.
func (tm *TokenManager) Decode(tokenStr string, expected TokenType) (string, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tm.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(tm.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrMalformedToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", ErrMalformedToken
	}
	if claims.Subject == "" {
		return "", ErrMalformedToken
	}
	if claims.TokenType != expected {
		return "", ErrTokenTypeMismatch
	}
	return claims.Subject, nil
}
