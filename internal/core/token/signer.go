// Package token implements the signing half of the auth core: building and
// verifying HS256 access tokens and generating opaque refresh tokens.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shopworks/auth-system/internal/core/domain"
)

const defaultTTL = time.Hour

// ErrMissingSecret is returned by NewSigner when no signing secret is
// configured. This is a startup error, not a per-request one.
var ErrMissingSecret = errors.New("token: signing secret is required")

// Config holds the signing parameters read from the environment.
type Config struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Signer builds and verifies access tokens. It is stateless and safe for
// unrestricted concurrent use.
type Signer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
}

// Claims is the claim set embedded in every issued access token.
type Claims struct {
	Email string   `json:"email"`
	Name  string   `json:"name,omitempty"`
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

func NewSigner(cfg Config) (*Signer, error) {
	if cfg.Secret == "" {
		return nil, ErrMissingSecret
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Signer{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      ttl,
	}, nil
}

// Issue signs an access token binding the user's identity and the given role
// set. Role changes only take effect on the next issuance; tokens are not
// revocable mid-lifetime.
func (s *Signer) Issue(user *domain.User, roles []string) (string, error) {
	now := time.Now().UTC()
	claims := &Claims{
		Email: user.Email,
		Name:  user.DisplayName(),
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and validates signature, issuer, audience, and
// expiry with no grace window.
func (s *Signer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("verify access token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("verify access token: invalid")
	}
	return claims, nil
}

// Identity extracts the claims of a possibly expired token. The signature
// must still verify; expiry is deliberately ignored so the refresh flow can
// recover the subject from an access token past its lifetime.
func (s *Signer) Identity(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("parse access token: missing subject")
	}
	return claims, nil
}

func (s *Signer) keyFunc(t *jwt.Token) (interface{}, error) {
	if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return s.secret, nil
}

// NewRefreshToken draws 64 bytes from a cryptographically secure random
// source and encodes them URL-safe. Uniqueness is probabilistic; the
// persistence layer still enforces it defensively.
func NewRefreshToken() (string, error) {
	buf := make([]byte, 64)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
