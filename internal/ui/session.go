package ui

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/me/jarvis/internal/apiclient"
	"github.com/me/jarvis/internal/config"
	"github.com/me/jarvis/internal/lifecycle"
	"github.com/me/jarvis/internal/session"
	"github.com/me/jarvis/internal/store"
)

const (
	// ClientCookieName identifies a browser across requests.
	ClientCookieName = "jarvis_client"
	// DefaultClientIdle is how long an unused client stays in memory.
	DefaultClientIdle = 2 * time.Hour
	// DefaultStorageRetention is how long persisted items of absent clients are kept.
	DefaultStorageRetention = 7 * 24 * time.Hour
	// DefaultMaxClients bounds the number of clients held in memory.
	DefaultMaxClients = 10000
)

// ClientConfig configures the per-browser bundles.
type ClientConfig struct {
	Backends      config.BackendConfig
	CheckInterval time.Duration
	Idle          time.Duration
	Retention     time.Duration
	MaxClients    int  // Least recently seen clients are unmounted beyond this
	Secure        bool // Set Secure on the client cookie (HTTPS)
}

// Client is everything one browser owns: its token storage scope, one client
// per backend, the session store and the lifecycle controller driving it.
type Client struct {
	ID        string
	Tokens    store.TokenStorage
	Primary   *apiclient.PrimaryAPI
	QA        *apiclient.QAAPI
	Session   *session.Store
	Lifecycle *lifecycle.Controller
	Nav       *Navigator

	ready    chan struct{} // closed once the mount check finished
	lastSeen time.Time     // guarded by ClientManager.mu
}

// ClientManager maps client cookies to their bundles.
type ClientManager struct {
	store  store.Store
	cfg    ClientConfig
	logger *slog.Logger

	ctx    context.Context // lifetime of every controller
	cancel context.CancelFunc

	mu      sync.Mutex
	clients map[string]*Client
	now     func() time.Time
}

// NewClientManager creates a registry persisting tokens in st.
func NewClientManager(st store.Store, cfg ClientConfig, logger *slog.Logger) *ClientManager {
	if cfg.Idle <= 0 {
		cfg.Idle = DefaultClientIdle
	}
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultStorageRetention
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = config.DefaultCheckInterval
	}
	if cfg.MaxClients <= 0 {
		cfg.MaxClients = DefaultMaxClients
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &ClientManager{
		store:   st,
		cfg:     cfg,
		logger:  logger.With("component", "clients"),
		ctx:     ctx,
		cancel:  cancel,
		clients: make(map[string]*Client),
		now:     time.Now,
	}
}

// ClientFromRequest returns the bundle for the request's cookie, issuing a
// new cookie when the request has none or an unusable one.
func (m *ClientManager) ClientFromRequest(w http.ResponseWriter, r *http.Request) *Client {
	id := cookieID(r)
	if id == "" {
		id = uuid.NewString()
		setClientCookie(w, id, m.cfg.Secure)
	}
	return m.Get(r.Context(), id)
}

// Lookup returns the bundle for the request's cookie, or nil when the request
// carries none. It never issues a cookie.
func (m *ClientManager) Lookup(r *http.Request) *Client {
	id := cookieID(r)
	if id == "" {
		return nil
	}
	return m.Get(r.Context(), id)
}

func cookieID(r *http.Request) string {
	c, err := r.Cookie(ClientCookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

// Get returns the bundle for id, creating and mounting it on first sight.
// It waits for the mount check unless ctx ends first.
func (m *ClientManager) Get(ctx context.Context, id string) *Client {
	m.mu.Lock()
	c, ok := m.clients[id]
	if ok {
		c.lastSeen = m.now()
		m.mu.Unlock()
	} else {
		evicted := m.evictLocked()
		c = m.newClient(id)
		m.clients[id] = c
		m.mu.Unlock()

		if evicted != nil {
			evicted.Lifecycle.Stop()
			m.logger.Debug("client evicted", "client", evicted.ID)
		}
		m.logger.Debug("client mounted", "client", id)
		go func() {
			defer close(c.ready)
			c.Lifecycle.Start(m.ctx)
		}()
	}

	select {
	case <-c.ready:
	case <-ctx.Done():
	}
	return c
}

// newClient wires one bundle. Called with m.mu held.
func (m *ClientManager) newClient(id string) *Client {
	logger := m.logger.With("client", shortID(id))
	tokens := store.Scope(m.store, id)
	b := m.cfg.Backends

	primary := apiclient.NewPrimary(b.NestJSURL, tokens, b.RequestTimeout, b.ValidateTimeout, logger)
	qa := apiclient.NewQA(b.PythonURL, tokens, b.RequestTimeout, logger)
	sess := session.New(m.ctx, primary, tokens, logger)
	nav := &Navigator{}
	ctrl := lifecycle.New(sess, tokens, nav, logger, lifecycle.WithInterval(m.cfg.CheckInterval))
	ctrl.Watch(primary.Client, qa.Client)

	return &Client{
		ID:        id,
		Tokens:    tokens,
		Primary:   primary,
		QA:        qa,
		Session:   sess,
		Lifecycle: ctrl,
		Nav:       nav,
		ready:     make(chan struct{}),
		lastSeen:  m.now(),
	}
}

// evictLocked removes the least recently seen client when the registry is
// full. Called with m.mu held; the caller stops the returned client.
func (m *ClientManager) evictLocked() *Client {
	if len(m.clients) < m.cfg.MaxClients {
		return nil
	}
	var oldest *Client
	for _, c := range m.clients {
		if oldest == nil || c.lastSeen.Before(oldest.lastSeen) {
			oldest = c
		}
	}
	if oldest != nil {
		delete(m.clients, oldest.ID)
	}
	return oldest
}

// Len returns the number of live clients.
func (m *ClientManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

// Sweep unmounts clients idle for longer than the configured limit.
// Their persisted tokens survive, so a returning browser is mounted again.
func (m *ClientManager) Sweep() int {
	cutoff := m.now().Add(-m.cfg.Idle)

	m.mu.Lock()
	var idle []*Client
	for id, c := range m.clients {
		if c.lastSeen.Before(cutoff) {
			idle = append(idle, c)
			delete(m.clients, id)
		}
	}
	m.mu.Unlock()

	for _, c := range idle {
		c.Lifecycle.Stop()
		m.logger.Debug("client unmounted", "client", c.ID)
	}
	return len(idle)
}

// staleDeleter is implemented by stores that can expire old items.
type staleDeleter interface {
	DeleteStale(ctx context.Context, before time.Time) (int64, error)
}

// Run sweeps idle clients every interval until ctx is cancelled.
func (m *ClientManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.logger.Info("swept idle clients", "count", n)
			}
			if sd, ok := m.store.(staleDeleter); ok {
				n, err := sd.DeleteStale(ctx, m.now().Add(-m.cfg.Retention))
				if err != nil {
					m.logger.Error("delete stale storage", "error", err)
				} else if n > 0 {
					m.logger.Info("deleted stale storage", "items", n)
				}
			}
		}
	}
}

// Close stops every controller.
func (m *ClientManager) Close() {
	m.cancel()

	m.mu.Lock()
	clients := m.clients
	m.clients = make(map[string]*Client)
	m.mu.Unlock()

	for _, c := range clients {
		c.Lifecycle.Stop()
	}
}

// Navigator records where a client is and where it has been sent.
// A navigation requested outside a page handler (an unauthorized response
// during an API call) is held until the next response picks it up.
type Navigator struct {
	mu       sync.Mutex
	location string
	pending  string
}

// Location returns the client's current location.
func (n *Navigator) Location() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.location
}

// Navigate records a redirect for the next response.
func (n *Navigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.location = path
	n.pending = path
}

// Visit records the location being served.
func (n *Navigator) Visit(location string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.location = location
}

// TakeRedirect returns and clears the pending redirect.
func (n *Navigator) TakeRedirect() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	p := n.pending
	n.pending = ""
	return p
}

// setClientCookie sets the client cookie on the response.
func setClientCookie(w http.ResponseWriter, id string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     ClientCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
	})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// safeRedirect returns from when it is a local page other than the auth
// pages, else "/".
func safeRedirect(from string) string {
	switch {
	case from == "", !strings.HasPrefix(from, "/"):
		return "/"
	case strings.HasPrefix(from, "//"), strings.HasPrefix(from, "/\\"):
		return "/"
	case strings.HasPrefix(from, "/login"), strings.HasPrefix(from, "/register"):
		return "/"
	}
	return from
}
