package model

// SessionStatus is the coarse state of the authentication state machine.
type SessionStatus string

const (
	StatusAnonymous     SessionStatus = "anonymous"
	StatusPending       SessionStatus = "pending"
	StatusAuthenticated SessionStatus = "authenticated"
	StatusError         SessionStatus = "error"
)

// AuthState is a snapshot of one client's session.
// IsAuthenticated implies User != nil and Token != "".
type AuthState struct {
	User            *User  `json:"user"`
	Token           string `json:"-"`
	IsAuthenticated bool   `json:"isAuthenticated"`
	Loading         bool   `json:"loading"`
	Error           string `json:"error,omitempty"`
}

// Status derives the state machine state from the snapshot.
func (s AuthState) Status() SessionStatus {
	switch {
	case s.Loading:
		return StatusPending
	case s.IsAuthenticated:
		return StatusAuthenticated
	case s.Error != "":
		return StatusError
	default:
		return StatusAnonymous
	}
}

// Role returns the signed-in user's role, or "" when there is none.
func (s AuthState) Role() Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// Clone returns a copy that does not share the User pointer.
func (s AuthState) Clone() AuthState {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
