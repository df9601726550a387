package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrNoExpiry = errors.New("token carries no expiry claim")

// parser does no signature verification: the backend owns the signing key;
// the client only inspects claims it was handed.
var parser = jwt.NewParser()

// TokenExpiry extracts the exp claim from an access token without
// verifying the signature.
func TokenExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, ErrNoExpiry
	}
	return exp.Time, nil
}

// IsExpired reports whether the token's expiry has passed, with a small
// leeway so a token about to lapse mid-request counts as expired. Tokens
// that cannot be parsed are treated as expired.
func IsExpired(token string, leeway time.Duration) bool {
	exp, err := TokenExpiry(token)
	if err != nil {
		return true
	}
	return time.Now().Add(leeway).After(exp)
}
