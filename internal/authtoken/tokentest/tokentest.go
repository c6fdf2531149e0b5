// Package tokentest mints signed tokens shaped like the primary backend's, for tests.
package tokentest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Key signs test tokens. The console never verifies signatures.
var Key = []byte("test-signing-key")

// Claims mirrors the payload issued by the primary backend.
type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// New returns a token for user id sub with the given role, expiring at exp.
func New(t testing.TB, sub, role string, exp time.Time) string {
	t.Helper()
	return Sign(t, Claims{
		Username: "user" + sub,
		Email:    "user" + sub + "@example.com",
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
}

// Valid returns a token for sub/role that expires in an hour.
func Valid(t testing.TB, sub, role string) string {
	t.Helper()
	return New(t, sub, role, time.Now().Add(time.Hour))
}

// Expired returns a token for sub/role that expired an hour ago.
func Expired(t testing.TB, sub, role string) string {
	t.Helper()
	return New(t, sub, role, time.Now().Add(-time.Hour))
}

// Sign signs arbitrary claims with HS256.
func Sign(t testing.TB, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(Key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}
