// Package auth provides JWT issuance/validation, bcrypt password hashing,
// and the bearer-token middleware for protected routes.
//
// The token model follows the usual two-class scheme:
//   - access tokens: short-lived, sent as "Authorization: Bearer <jwt>" on
//     every protected request
//   - refresh tokens: longer-lived, exchanged at POST /refresh for a fresh
//     access token
//
// Both are HS256-signed JWTs. A "token_type" claim separates the classes so
// a refresh token can never be replayed against a protected route.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "book-catalog"

// Token classes carried in the "token_type" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenPair bundles the two tokens returned by register and login.
// JSON field names match the wire format ({"access": ..., "refresh": ...}).
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// TokenService signs and verifies JWTs. It holds the HMAC secret and the
// lifetime of each token class; the same secret must be used for signing
// and verification.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a TokenService. The secret should be at least 32
// bytes of random data in production (e.g. openssl rand -hex 32); anything
// under 16 characters is rejected outright.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("auth: token TTLs must be positive")
	}
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

// claims is the JWT payload. The user ID travels in the standard "sub"
// claim; TokenType distinguishes access from refresh tokens.
type claims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// GeneratePair issues a fresh access+refresh token pair for the given user.
func (s *TokenService) GeneratePair(userID string) (*TokenPair, error) {
	access, err := s.generate(userID, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generate(userID, TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// GenerateAccess issues a single access token. Used by the refresh flow.
func (s *TokenService) GenerateAccess(userID string) (string, error) {
	return s.generate(userID, TokenTypeAccess, s.accessTTL)
}

func (s *TokenService) generate(userID, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()

	c := claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing %s token: %w", tokenType, err)
	}

	return signed, nil
}

// Validate parses and verifies a JWT and checks that it belongs to the
// expected token class. Returns the userID from the "sub" claim.
//
// The checks performed (mostly by the jwt library):
//   - signature is valid and the algorithm is HS256 — restricting the
//     accepted methods closes the algorithm-confusion hole
//   - token is not expired and expiry is present
//   - issuer matches ours
//   - token_type matches wantType, so a refresh token is useless as a
//     bearer credential and an access token cannot mint new tokens
func (s *TokenService) Validate(tokenStr, wantType string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", fmt.Errorf("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("auth: invalid token claims")
	}

	if c.TokenType != wantType {
		return "", fmt.Errorf("auth: token type %q, want %q", c.TokenType, wantType)
	}

	if c.Subject == "" {
		return "", fmt.Errorf("auth: token has no subject")
	}

	return c.Subject, nil
}
