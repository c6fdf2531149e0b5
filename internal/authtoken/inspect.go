package authtoken

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// ExpiringSoonWindow is the remaining lifetime below which a token is flagged.
const ExpiringSoonWindow = 30 * time.Minute

// Report is a human-oriented summary of a token, for debugging sessions.
type Report struct {
	Present      bool
	Decodable    bool
	Claims       *Claims
	TimeLeft     time.Duration
	Expired      bool
	ExpiringSoon bool
	DecodeError  string
}

// Inspect summarises token relative to now.
func Inspect(token string, now time.Time) Report {
	r := Report{Present: token != ""}
	if !r.Present {
		return r
	}

	c, err := Decode(token)
	if err != nil {
		r.DecodeError = err.Error()
		return r
	}
	r.Decodable = true
	r.Claims = c

	if c.ExpiresAt.IsZero() {
		r.Expired = true
		return r
	}
	r.TimeLeft = c.ExpiresAt.Sub(now)
	r.Expired = r.TimeLeft <= 0
	r.ExpiringSoon = !r.Expired && r.TimeLeft < ExpiringSoonWindow
	return r
}

// String renders the report as a few lines of text.
func (r Report) String() string {
	if !r.Present {
		return "No authentication token found"
	}
	if !r.Decodable {
		return "Error parsing authentication token: " + r.DecodeError
	}

	var b strings.Builder
	fmt.Fprintf(&b, "User ID:    %s\n", r.Claims.Subject)
	fmt.Fprintf(&b, "User email: %s\n", r.Claims.Email)
	fmt.Fprintf(&b, "User role:  %s", r.Claims.Role)
	if r.Claims.UnknownRole() {
		fmt.Fprintf(&b, " (issued as %q)", r.Claims.RawRole)
	}
	b.WriteString("\n")

	switch {
	case r.Claims.ExpiresAt.IsZero():
		b.WriteString("Token has no expiry claim\n")
	case r.Expired:
		fmt.Fprintf(&b, "Token is EXPIRED (%s)\n", humanize.Time(r.Claims.ExpiresAt))
	default:
		fmt.Fprintf(&b, "Token expires %s (%d minutes)\n", humanize.Time(r.Claims.ExpiresAt), int(r.TimeLeft/time.Minute))
		if r.ExpiringSoon {
			b.WriteString("Token will expire soon\n")
		}
	}
	return b.String()
}
