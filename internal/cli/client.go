package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/me/jarvis/internal/apiclient"
	"github.com/me/jarvis/internal/authtoken"
	"github.com/me/jarvis/internal/config"
	"github.com/me/jarvis/internal/guard"
	"github.com/me/jarvis/internal/session"
	"github.com/me/jarvis/internal/store"
	"github.com/me/jarvis/pkg/model"
)

var timeNow = time.Now

var (
	errNotLoggedIn    = errors.New("not logged in (run `jarvis login`)")
	errSessionExpired = errors.New("session expired (run `jarvis login`)")
)

// Client is the CLI's session: the credentials file, both API clients and
// the session store that ties them together.
type Client struct {
	Tokens  *store.FileTokenStorage
	Primary *apiclient.PrimaryAPI
	QA      *apiclient.QAAPI
	Session *session.Store
	Logger  *slog.Logger
}

// NewClient wires a session whose token lives in the file at credPath.
func NewClient(ctx context.Context, b config.BackendConfig, credPath string, logger *slog.Logger) (*Client, error) {
	if b.NestJSURL == "" || b.PythonURL == "" {
		return nil, errors.New("both backend URLs are required")
	}
	tokens := store.NewFileTokenStorage(credPath)
	primary := apiclient.NewPrimary(b.NestJSURL, tokens, b.RequestTimeout, b.ValidateTimeout, logger)
	qa := apiclient.NewQA(b.PythonURL, tokens, b.RequestTimeout, logger)
	return &Client{
		Tokens:  tokens,
		Primary: primary,
		QA:      qa,
		Session: session.New(ctx, primary, tokens, logger),
		Logger:  logger,
	}, nil
}

// requireAuth restores the session the way a page mount does and checks
// that the user holds the required role. An empty role only needs a session.
func (c *Client) requireAuth(ctx context.Context, required model.Role) (*model.User, error) {
	tok, err := c.Tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	if tok == "" {
		return nil, errNotLoggedIn
	}
	if !authtoken.IsValid(tok) {
		c.Session.Logout(ctx)
		return nil, errSessionExpired
	}
	if err := c.Session.CheckAuth(ctx); err != nil {
		if apiclient.IsUnauthorized(err) || apiclient.IsForbidden(err) {
			return nil, errSessionExpired
		}
		return nil, err
	}

	state := c.Session.State()
	switch d := guard.Decide(state, required, "cli"); d.Kind {
	case guard.Render:
		return state.User, nil
	case guard.RedirectHome:
		return nil, fmt.Errorf("this command requires the %s role (signed in as %s)", required, state.Role())
	default:
		return nil, errNotLoggedIn
	}
}

// apiError turns a backend failure into a message for the terminal.
func apiError(action string, err error) error {
	switch {
	case apiclient.IsUnauthorized(err):
		return errSessionExpired
	case apiclient.IsForbidden(err):
		return fmt.Errorf("%s: permission denied", action)
	default:
		return fmt.Errorf("%s: %s", action, apiclient.Message(err))
	}
}

// inputError strips the error code from a form validation failure.
func inputError(err error) error {
	var ae *model.APIError
	if errors.As(err, &ae) {
		return errors.New(ae.Message)
	}
	return err
}
