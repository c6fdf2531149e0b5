// Package authtoken decodes bearer tokens issued by the primary backend and
// answers expiry questions locally, without a network call.
//
// Tokens are JWTs. The console never holds the signing key, so claims are read
// without signature verification; the server remains the authority on whether a
// token is accepted.
package authtoken

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/me/jarvis/pkg/model"
)

// ErrEmpty is returned by Decode for an empty token.
var ErrEmpty = errors.New("empty token")

var parser = jwt.NewParser()

// Claims are the decoded payload fields of a token.
type Claims struct {
	Subject   string
	Username  string
	Email     string
	Role      model.Role
	RawRole   string    // role exactly as issued
	ExpiresAt time.Time // zero when the token carries no exp claim
}

// UnknownRole reports whether the issued role was outside the known set
// and has been normalised to viewer.
func (c *Claims) UnknownRole() bool {
	_, ok := model.ParseRole(c.RawRole)
	return !ok
}

// User maps the claims onto the session user shape.
func (c *Claims) User() *model.User {
	return &model.User{
		ID:       c.Subject,
		Username: c.Username,
		Email:    c.Email,
		Role:     c.Role,
	}
}

// Decode parses the token payload. It never verifies the signature.
func Decode(token string) (*Claims, error) {
	if token == "" {
		return nil, ErrEmpty
	}

	mc := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, mc); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}

	c := &Claims{
		Subject:  stringClaim(mc["sub"]),
		Username: stringClaim(mc["username"]),
		Email:    stringClaim(mc["email"]),
		RawRole:  stringClaim(mc["role"]),
	}
	c.Role, _ = model.ParseRole(c.RawRole)

	exp, err := mc.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("decode token exp: %w", err)
	}
	if exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c, nil
}

// IsValid reports whether token decodes and its expiry is strictly in the future.
// A token without an exp claim is not valid.
func IsValid(token string) bool {
	return isValidAt(token, time.Now())
}

func isValidAt(token string, now time.Time) bool {
	c, err := Decode(token)
	if err != nil || c.ExpiresAt.IsZero() {
		return false
	}
	return c.ExpiresAt.Unix() > now.Unix()
}

// UserFromToken returns the user described by the token's claims,
// or nil when the token is empty or cannot be decoded.
func UserFromToken(token string) *model.User {
	c, err := Decode(token)
	if err != nil {
		return nil
	}
	return c.User()
}

// ExpirationDate returns the token's expiry. ok is false when the token is
// empty, undecodable or carries no exp claim.
func ExpirationDate(token string) (exp time.Time, ok bool) {
	c, err := Decode(token)
	if err != nil || c.ExpiresAt.IsZero() {
		return time.Time{}, false
	}
	return c.ExpiresAt, true
}

// stringClaim renders a claim as a string. Numeric subjects are common, so
// numbers are formatted without a fractional part where possible.
func stringClaim(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
