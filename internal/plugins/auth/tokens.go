package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aitutor/academy/internal/apperror"
)

// Claims is the JWT body of an access or refresh token.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Name  string `json:"name,omitempty"`
}

// TokenIssuer signs and verifies HS256 session tokens with a server secret.
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

// NewTokenIssuer creates an issuer keyed by secret. The secret must not be
// empty; config.Load refuses to start without one.
func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), now: time.Now}
}

// Issue signs a token for payload that expires ttl from now.
func (t *TokenIssuer) Issue(p TokenPayload, ttl time.Duration) (string, error) {
	now := t.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: p.Email,
		Role:  p.Role,
		Name:  p.Name,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of token and returns its payload.
// Any failure is reported as apperror InvalidToken. There is no leeway: a
// token is rejected from the second it expires.
func (t *TokenIssuer) Verify(token string) (*TokenPayload, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, apperror.NewInvalidToken(err)
	}
	if !parsed.Valid {
		return nil, apperror.NewInvalidToken(errors.New("token not valid"))
	}
	if claims.Subject == "" {
		return nil, apperror.NewInvalidToken(errors.New("token has no subject"))
	}

	return &TokenPayload{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
		Name:   claims.Name,
	}, nil
}
