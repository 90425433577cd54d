// ABOUTME: Local continuity-token issuing and inspection for sessions
// ABOUTME: Uses HS256 signing with a configurable client-side secret

package session

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingClaim = errors.New("missing required claim")
)

// TokenIssuer creates and inspects HS256-signed continuity tokens. The token
// gives the session a stable opaque credential; the backend remains the
// authority on whether the user is actually valid.
type TokenIssuer struct {
	secret []byte
}

// NewTokenIssuer creates a token issuer with the given secret
func NewTokenIssuer(secret []byte) *TokenIssuer {
	return &TokenIssuer{secret: secret}
}

// Issue creates a signed token for the given user. Tokens carry the user id
// as "sub" and the role as a custom claim. No expiry is set; session
// lifetime ends at logout.
func (i *TokenIssuer) Issue(user User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(user.ID, 10),
		"role": string(user.Role),
		"iat":  time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Inspect validates the token signature and extracts the subject and role.
func (i *TokenIssuer) Inspect(tokenString string) (subject string, role Role, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method is HS256
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return "", "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", "", fmt.Errorf("%w: sub", ErrMissingClaim)
	}

	roleStr, _ := claims["role"].(string)
	return sub, Role(roleStr), nil
}
