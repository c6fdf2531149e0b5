// Package lifecycle keeps a session honest over time: it validates the
// persisted token when a client mounts, when it regains focus and on a fixed
// interval, and reacts to unauthorized responses from the backends.
package lifecycle

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/me/jarvis/internal/apiclient"
	"github.com/me/jarvis/internal/authtoken"
	"github.com/me/jarvis/internal/config"
	"github.com/me/jarvis/internal/store"
)

// ExpiredLocation is where a client is sent after its session was revoked.
const ExpiredLocation = "/login?session=expired"

// SessionStore is the part of the session store the controller drives.
type SessionStore interface {
	CheckAuth(ctx context.Context) error
	Logout(ctx context.Context)
}

// Navigator moves a client to another location.
type Navigator interface {
	Location() string
	Navigate(path string)
}

// Notifier emits unauthorized events; *apiclient.Client implements it.
type Notifier interface {
	OnUnauthorized(fn apiclient.UnauthorizedFunc) (remove func())
}

// Option configures a Controller.
type Option func(*Controller)

// WithInterval sets the periodic re-validation interval.
func WithInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// Controller runs the mount, focus and timer checks for one client.
type Controller struct {
	store    SessionStore
	tokens   store.TokenStorage
	nav      Navigator
	interval time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	started  bool
	stopped  bool
	stopCh   chan struct{}
	doneCh   chan struct{}
	removers []func()
}

// New creates a controller. Call Start to run it and Stop to dispose of it.
func New(st SessionStore, tokens store.TokenStorage, nav Navigator, logger *slog.Logger, opts ...Option) *Controller {
	c := &Controller{
		store:    st,
		tokens:   tokens,
		nav:      nav,
		interval: config.DefaultCheckInterval,
		logger:   logger.With("component", "lifecycle"),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Watch subscribes HandleUnauthorized to each notifier until Stop.
func (c *Controller) Watch(notifiers ...Notifier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range notifiers {
		c.removers = append(c.removers, n.OnUnauthorized(c.HandleUnauthorized))
	}
}

// Start runs the mount check and then starts the periodic timer.
// The timer runs until Stop is called or ctx is cancelled.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started || c.stopped {
		c.mu.Unlock()
		return
	}
	c.started = true
	c.mu.Unlock()

	c.check(ctx, "mount")

	c.logger.Debug("session timer started", "interval", c.interval)
	go c.run(ctx)
}

// Focus re-runs the mount check after the client regained focus.
func (c *Controller) Focus(ctx context.Context) {
	c.check(ctx, "focus")
}

func (c *Controller) run(ctx context.Context) {
	defer close(c.doneCh)
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Debug("session timer stopping (context cancelled)")
			return
		case <-c.stopCh:
			c.logger.Debug("session timer stopping (stop called)")
			return
		case <-ticker.C:
			c.Tick(ctx)
		}
	}
}

// Tick re-validates with the server whenever a token is persisted.
func (c *Controller) Tick(ctx context.Context) {
	if c.persistedToken(ctx) == "" {
		return
	}
	c.logger.Debug("periodic token validation")
	if err := c.store.CheckAuth(ctx); err != nil {
		c.logger.Info("periodic validation failed", "error", err)
	}
}

// check is the mount/focus check: nothing persisted means nothing to do, a
// locally expired token is purged without a server call.
func (c *Controller) check(ctx context.Context, trigger string) {
	token := c.persistedToken(ctx)
	if token == "" {
		return
	}
	if !authtoken.IsValid(token) {
		c.logger.Info("persisted token is invalid or expired, logging out", "trigger", trigger)
		c.store.Logout(ctx)
		return
	}
	if err := c.store.CheckAuth(ctx); err != nil {
		c.logger.Info("token validation failed", "trigger", trigger, "error", err)
	}
}

func (c *Controller) persistedToken(ctx context.Context) string {
	tok, err := c.tokens.Token(ctx)
	if err != nil {
		c.logger.Warn("read persisted token", "error", err)
		return ""
	}
	return tok
}

// HandleUnauthorized reacts to a 401 from a backend. The transport has
// already purged the persisted token. A failed validation call is left to the
// session store, and so is a 401 received while on the login page (a rejected
// sign-in).
func (c *Controller) HandleUnauthorized(ev apiclient.UnauthorizedEvent) {
	if ev.ValidationCall {
		return
	}
	if loc, _, _ := strings.Cut(c.nav.Location(), "?"); loc == "/login" {
		return
	}
	c.logger.Info("unauthorized response, ending session", "method", ev.Method, "path", ev.Path)
	c.store.Logout(context.Background())
	c.nav.Navigate(ExpiredLocation)
}

// Stop stops the timer, waits for it to exit and drops the event
// subscriptions. It is safe to call more than once.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	started := c.started
	removers := c.removers
	c.removers = nil
	close(c.stopCh)
	c.mu.Unlock()

	for _, remove := range removers {
		remove()
	}
	if started {
		<-c.doneCh
	}
}
