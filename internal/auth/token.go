package auth

import (
	"errors"
	"fmt"
	"time"

	"ctchen222/game-store/internal/api/models"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest HMAC key accepted for signing tokens.
const MinSecretLength = 32

var errShortSecret = fmt.Errorf("jwt secret must be at least %d bytes", MinSecretLength)

// Claims is the payload of an access token.
type Claims struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Identity returns the caller described by the claims.
func (c *Claims) Identity() Identity {
	return Identity{Email: c.Email, Role: c.Role}
}

// TokenConfig holds the signing parameters shared by issuing and verifying.
type TokenConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
	TTL      time.Duration
}

// TokenIssuer signs and verifies HS256 access tokens. It keeps no record of
// issued tokens, so a token stays valid until it expires.
type TokenIssuer struct {
	cfg TokenConfig
	now func() time.Time
}

// NewTokenIssuer validates cfg and creates an issuer.
func NewTokenIssuer(cfg TokenConfig) (*TokenIssuer, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, errShortSecret
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &TokenIssuer{cfg: cfg, now: time.Now}, nil
}

// GenerateToken issues a signed token for the given subject email and role.
func (i *TokenIssuer) GenerateToken(email string, role models.Role) (string, error) {
	now := i.now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.cfg.Issuer,
			Subject:   email,
			Audience:  jwt.ClaimStrings{i.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.cfg.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, issuer, audience and expiry and returns the claims.
func (i *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			return i.cfg.Secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.cfg.Issuer),
		jwt.WithAudience(i.cfg.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("token is invalid")
	}
	if claims.Email == "" || !claims.Role.Valid() {
		return nil, errors.New("token is missing identity claims")
	}
	return claims, nil
}
