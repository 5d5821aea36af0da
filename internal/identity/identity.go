// Package identity consumes the external identity provider's JWTs. The
// provider owns registration and credentials; this module only needs a
// stable user id (and a display username) out of each bearer token.
package identity

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrMissingAuthorization = errors.New("missing authorization header")
	ErrInvalidToken         = errors.New("invalid token")
)

type Claims struct {
	UserID   uint   `json:"uid"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 bearer tokens against a shared secret.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})),
	}
}

// FromAuthHeader extracts the raw token from an Authorization header. Only
// the Bearer scheme is accepted; anything else is treated as missing.
func FromAuthHeader(header string) (string, error) {
	const scheme = "Bearer "
	if !strings.HasPrefix(header, scheme) {
		return "", ErrMissingAuthorization
	}
	token := strings.TrimSpace(header[len(scheme):])
	if token == "" {
		return "", ErrMissingAuthorization
	}
	return token, nil
}

// Parse validates the token and returns its claims.
func (v *Verifier) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
