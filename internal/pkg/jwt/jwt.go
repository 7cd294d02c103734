package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const issuer = "code-injection-core"

// ErrNoSecret is returned when tokens are signed or parsed before the
// secret has been configured at startup.
var ErrNoSecret = errors.New("jwt secret is not configured")

var secret []byte

// SetSecret configures the signing secret. Call once at startup before any
// Sign or Parse.
func SetSecret(s string) {
	if s != "" {
		secret = []byte(s)
	}
}

// Claims identifies the operator a token was issued to.
type Claims struct {
	UserID   string `json:"uid"`
	Username string `json:"username,omitempty"`
	jwtlib.RegisteredClaims
}

func (c Claims) valid() bool { return c.UserID != "" }

// Sign issues a token for the operator account.
func Sign(userID, username string, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", ErrNoSecret
	}
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(now),
		},
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(secret)
}

// Parse validates a token and returns its claims. Tokens must carry this
// service's issuer and an expiry; anything else is rejected.
func Parse(tokenStr string) (*Claims, error) {
	if len(secret) == 0 {
		return nil, ErrNoSecret
	}
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwtlib.WithIssuer(issuer), jwtlib.WithExpirationRequired())
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || !claims.valid() {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
