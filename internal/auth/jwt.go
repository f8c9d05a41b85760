// Package auth provides stateless token authentication for the API. Tokens
// are HS256-signed JWTs carrying the user id as subject plus a role claim;
// parsing validates signature, expiry, and algorithm before handing back the
// acting party.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned when a token fails signature, structure, or
// expiry validation.
var ErrInvalidToken = errors.New("invalid token")

// Party identifies the authenticated caller of a request.
type Party struct {
	ID   string
	Role string
}

// Claims is the JWT claim set issued at login.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer mints and validates access tokens with a shared HS256 secret.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer builds an Issuer. TTL bounds how long an issued token is accepted.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given party.
func (i *Issuer) Issue(userID, role string) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Parse validates a token string and returns the acting party.
func (i *Issuer) Parse(token string) (Party, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return Party{}, ErrInvalidToken
	}
	return Party{ID: claims.Subject, Role: claims.Role}, nil
}
