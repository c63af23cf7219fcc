package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired inspects the cached JWT without verifying its signature;
// verification belongs to the backend. Unparseable tokens are treated as
// live and left for the server to reject.
func tokenExpired(token string) bool {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return claims.ExpiresAt.Before(time.Now())
}
