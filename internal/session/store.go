// Package session owns one client's authentication state: who is signed in,
// with which token, and whether a login, registration or re-validation is in
// flight. All mutations go through the Store's actions; the persisted token is
// kept in step with the in-memory one.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/me/jarvis/internal/apiclient"
	"github.com/me/jarvis/internal/authtoken"
	"github.com/me/jarvis/internal/logging"
	"github.com/me/jarvis/internal/store"
	"github.com/me/jarvis/pkg/model"
)

// User-facing failure messages.
const (
	MsgNoToken        = "No token found"
	MsgTokenExpired   = "Token expired. Please sign in again."
	MsgLoginFailed    = "Login failed. Please check your credentials."
	MsgRegisterFailed = "Registration failed. The email may already be in use."
	MsgSessionExpired = "Your session has expired. Please sign in again."
	MsgUnreachable    = "Unable to reach the server. Please try again."
)

// ErrSuperseded is returned by an action whose result was discarded because a
// later action (another attempt, a logout) changed the session first.
var ErrSuperseded = errors.New("superseded by a newer session action")

// ErrIncompleteCredentials is returned by SetCredentials without a user or token.
var ErrIncompleteCredentials = errors.New("credentials need both a user and a token")

// AuthAPI is the part of the primary backend the store depends on.
type AuthAPI interface {
	Login(ctx context.Context, creds model.Credentials) (*model.AuthResult, error)
	Register(ctx context.Context, reg model.Registration) (*model.AuthResult, error)
	ValidateToken(ctx context.Context, token string) (*model.AuthResult, error)
}

// Error is a failed session action. Message is what the user is shown.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

// Store is the session state container.
type Store struct {
	api    AuthAPI
	tokens store.TokenStorage
	logger *slog.Logger

	mu      sync.Mutex
	state   model.AuthState
	attempt uint64 // bumped by every action; only the latest attempt commits

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(model.AuthState)
}

// New creates a Store whose token is seeded from tokens.
func New(ctx context.Context, api AuthAPI, tokens store.TokenStorage, logger *slog.Logger) *Store {
	s := &Store{
		api:    api,
		tokens: tokens,
		logger: logger.With("component", "session"),
		subs:   make(map[int]func(model.AuthState)),
	}
	tok, err := tokens.Token(ctx)
	if err != nil {
		s.logger.Warn("read persisted token", "error", err)
	}
	s.state.Token = tok
	return s
}

// State returns a snapshot of the session.
func (s *Store) State() model.AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn to receive a snapshot after every transition.
func (s *Store) Subscribe(fn func(model.AuthState)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(st model.AuthState) {
	s.subMu.Lock()
	fns := make([]func(model.AuthState), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(st.Clone())
	}
}

// Login authenticates with email and password.
func (s *Store) Login(ctx context.Context, creds model.Credentials) error {
	id := s.begin()
	res, err := s.api.Login(ctx, creds)
	if err != nil {
		return s.reject(ctx, id, failureMessage(err, MsgLoginFailed), err, false)
	}
	return s.authenticate(ctx, id, res.User, res.Token)
}

// Register creates an account and signs in with it.
func (s *Store) Register(ctx context.Context, reg model.Registration) error {
	id := s.begin()
	res, err := s.api.Register(ctx, reg)
	if err != nil {
		return s.reject(ctx, id, failureMessage(err, MsgRegisterFailed), err, false)
	}
	return s.authenticate(ctx, id, res.User, res.Token)
}

// CheckAuth re-validates the current token.
//
// The persisted token is preferred over the in-memory one. An expired token is
// rejected locally without calling the server. When the server cannot be
// reached, or answers with a 5xx, but the token has not expired, the session
// stays authenticated with the user decoded from the token. A 401 or 403 from
// the server always ends the session, even for a token that is valid locally.
func (s *Store) CheckAuth(ctx context.Context) error {
	id := s.begin()

	token, err := s.tokens.Token(ctx)
	if err != nil {
		s.logger.Warn("read persisted token", "error", err)
	}
	if token == "" {
		token = s.State().Token
	}
	if token == "" {
		s.logger.Debug("no token found during auth check")
		return s.reject(ctx, id, MsgNoToken, nil, true)
	}

	if !authtoken.IsValid(token) {
		s.logger.Info("token is invalid or expired based on local check")
		return s.reject(ctx, id, MsgTokenExpired, nil, true)
	}

	res, err := s.api.ValidateToken(ctx, token)
	if err == nil {
		newToken := token
		if res.Token != "" {
			newToken = res.Token
		}
		if newToken != token {
			s.logger.Info("token has been refreshed")
		}
		user := res.User
		if user == nil {
			user = authtoken.UserFromToken(newToken)
		}
		if user == nil {
			return s.reject(ctx, id, MsgSessionExpired, nil, true)
		}
		return s.authenticate(ctx, id, user, newToken)
	}

	if !rejectedByServer(err) && authtoken.IsValid(token) {
		if user := authtoken.UserFromToken(token); user != nil {
			s.logger.Warn("server validation failed but token is still valid locally, using token claims", "error", err)
			return s.authenticate(ctx, id, user, token)
		}
	}

	return s.reject(ctx, id, failureMessage(err, MsgSessionExpired), err, true)
}

// Logout clears the session and the persisted token. Pending actions are discarded.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	s.attempt++
	s.state.User = nil
	s.state.Token = ""
	s.state.IsAuthenticated = false
	s.state.Loading = false
	s.removeToken(ctx)
	snap := s.state.Clone()
	s.mu.Unlock()

	s.logger.Info("logged out")
	s.notify(snap)
}

// SetCredentials adopts an identity confirmed elsewhere. Both a user and a
// token are required; otherwise the state is left untouched.
func (s *Store) SetCredentials(ctx context.Context, user *model.User, token string) error {
	if user == nil || token == "" {
		return ErrIncompleteCredentials
	}
	s.mu.Lock()
	s.attempt++
	u := *user
	s.state.User = &u
	s.state.Token = token
	s.state.IsAuthenticated = true
	s.state.Loading = false
	s.persistToken(ctx, token)
	snap := s.state.Clone()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// ClearError clears the last error and nothing else.
func (s *Store) ClearError() {
	s.mu.Lock()
	s.state.Error = ""
	snap := s.state.Clone()
	s.mu.Unlock()

	s.notify(snap)
}

// begin enters the pending state and returns the attempt id.
func (s *Store) begin() uint64 {
	s.mu.Lock()
	s.attempt++
	id := s.attempt
	s.state.Loading = true
	s.state.Error = ""
	snap := s.state.Clone()
	s.mu.Unlock()

	s.notify(snap)
	return id
}

// commit applies fn if id is still the latest attempt.
func (s *Store) commit(id uint64, fn func(st *model.AuthState)) bool {
	s.mu.Lock()
	if id != s.attempt {
		s.mu.Unlock()
		s.logger.Debug("discarding stale session result", "attempt", id)
		return false
	}
	fn(&s.state)
	snap := s.state.Clone()
	s.mu.Unlock()

	s.notify(snap)
	return true
}

func (s *Store) authenticate(ctx context.Context, id uint64, user *model.User, token string) error {
	ok := s.commit(id, func(st *model.AuthState) {
		u := *user
		st.User = &u
		st.Token = token
		st.IsAuthenticated = true
		st.Loading = false
		s.persistToken(ctx, token)
	})
	if !ok {
		return ErrSuperseded
	}
	s.logger.Info("authenticated", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return nil
}

// reject records a failure. clear additionally drops the identity and the persisted token.
func (s *Store) reject(ctx context.Context, id uint64, msg string, cause error, clear bool) error {
	ok := s.commit(id, func(st *model.AuthState) {
		st.Loading = false
		st.Error = msg
		if clear {
			st.User = nil
			st.Token = ""
			st.IsAuthenticated = false
			s.removeToken(ctx)
		}
	})
	if !ok {
		return ErrSuperseded
	}
	if cause != nil {
		s.logger.Warn("session action failed", "message", msg, "error", cause)
	} else {
		s.logger.Info("session action failed", "message", msg)
	}
	return &Error{Message: msg, Err: cause}
}

// persistToken and removeToken run under s.mu so memory and storage change together.
func (s *Store) persistToken(ctx context.Context, token string) {
	if err := s.tokens.SetToken(context.WithoutCancel(ctx), token); err != nil {
		s.logger.Error("persist token", "error", err, logging.Token(token))
	}
}

func (s *Store) removeToken(ctx context.Context) {
	if err := s.tokens.RemoveToken(context.WithoutCancel(ctx)); err != nil {
		s.logger.Error("remove persisted token", "error", err)
	}
}

// rejectedByServer reports whether the server explicitly refused the token,
// as opposed to being unreachable or failing.
func rejectedByServer(err error) bool {
	return apiclient.IsUnauthorized(err) || apiclient.IsForbidden(err)
}

// failureMessage picks the message shown for a failed action.
func failureMessage(err error, fallback string) string {
	var he *apiclient.HTTPError
	switch {
	case errors.As(err, &he) && he.Message != "":
		return he.Message
	case errors.Is(err, apiclient.ErrNetwork):
		return MsgUnreachable
	default:
		return fallback
	}
}
