// Package guard decides what a protected page does for a given session state.
package guard

import "github.com/me/jarvis/pkg/model"

// Kind is the outcome of a guard decision.
type Kind int

const (
	ShowLoading Kind = iota
	RedirectLogin
	RedirectHome
	Render
)

func (k Kind) String() string {
	switch k {
	case ShowLoading:
		return "show-loading"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	case Render:
		return "render"
	default:
		return "unknown"
	}
}

// Route targets.
const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Decision is what the guard wants done.
type Decision struct {
	Kind Kind
	// Target is the redirect destination for RedirectLogin and RedirectHome.
	Target string
	// From is the originally requested location, set for RedirectLogin.
	From string
}

// Decide picks the outcome for a page requiring role required at location.
// An empty required role only demands authentication.
func Decide(state model.AuthState, required model.Role, location string) Decision {
	if state.Loading {
		return Decision{Kind: ShowLoading}
	}
	if !state.IsAuthenticated {
		return Decision{Kind: RedirectLogin, Target: LoginPath, From: location}
	}
	if required != "" && !state.Role().Satisfies(required) {
		return Decision{Kind: RedirectHome, Target: HomePath}
	}
	return Decision{Kind: Render}
}
