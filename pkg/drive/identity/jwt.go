// Package identity verifies tokens minted by the external identity
// provider. The drive does not run its own login flow: the IdP and this
// service share an HMAC secret, and every bearer token the IdP issues is
// validated locally without a network round trip.
package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/marmos91/dittodrive/pkg/drive/models"
)

// Common errors for token operations.
var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrExpiredToken        = errors.New("token has expired")
	ErrTokenSigningFailed  = errors.New("failed to sign token")
	ErrInvalidSecretLength = errors.New("JWT secret must be at least 32 characters")
)

// Claims are the identity claims the IdP embeds in its tokens. Subject
// carries the stable user ID.
type Claims struct {
	jwt.RegisteredClaims

	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Config holds configuration for token validation.
type Config struct {
	// Secret is the HMAC key shared with the identity provider. Must be
	// at least 32 characters.
	Secret string

	// Issuer is the expected token issuer claim. Default: "dittodrive-idp".
	Issuer string

	// TokenDuration is the lifetime of tokens minted locally with
	// GenerateToken. Default: 24 hours.
	TokenDuration time.Duration
}

// TokenService validates IdP tokens and resolves them to principals. It can
// also mint tokens, which stands in for the IdP in development and tests.
type TokenService struct {
	config Config
}

// NewTokenService creates a token service with the given configuration.
func NewTokenService(config Config) (*TokenService, error) {
	if len(config.Secret) < 32 {
		return nil, ErrInvalidSecretLength
	}

	if config.Issuer == "" {
		config.Issuer = "dittodrive-idp"
	}
	if config.TokenDuration == 0 {
		config.TokenDuration = 24 * time.Hour
	}

	return &TokenService{config: config}, nil
}

// GenerateToken mints a signed token for the given identity.
func (s *TokenService) GenerateToken(userID, email, name string) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenDuration)),
		},
		Email: email,
		Name:  name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", ErrTokenSigningFailed
	}

	return signedToken, nil
}

// ValidateToken validates a token string and returns its claims.
func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithIssuer(s.config.Issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.Email == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Resolve validates a token and returns the principal it identifies.
func (s *TokenService) Resolve(tokenString string) (*models.Principal, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &models.Principal{
		ID:    claims.Subject,
		Email: models.NormalizeEmail(claims.Email),
		Name:  claims.Name,
	}, nil
}

// TokenDuration returns the configured lifetime for minted tokens.
func (s *TokenService) TokenDuration() time.Duration {
	return s.config.TokenDuration
}
