package ui

import (
	"context"
	"net/http"
	"net/url"

	"github.com/me/jarvis/internal/guard"
	"github.com/me/jarvis/pkg/model"
)

// Context keys for client data.
type contextKey string

const (
	clientContextKey contextKey = "client"
)

// ClientFromContext retrieves the client bundle from the request context.
func ClientFromContext(ctx context.Context) *Client {
	c, _ := ctx.Value(clientContextKey).(*Client)
	return c
}

// WithClient resolves the request's client, records the visited location
// and adds the client to the context.
func (ui *UI) WithClient(next http.Handler) http.Handler {
	return ui.AttachClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ClientFromContext(r.Context()).Nav.Visit(r.URL.RequestURI())
		next.ServeHTTP(w, r)
	}))
}

// AttachClient adds the request's client to the context without moving its
// navigator. Background endpoints polled by a page use it.
func (ui *UI) AttachClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := ui.clients.ClientFromRequest(w, r)
		ctx := context.WithValue(r.Context(), clientContextKey, c)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LookupClient adds the request's client to the context only when the
// browser already has one. Requests without a cookie pass through anonymous.
func (ui *UI) LookupClient(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c := ui.clients.Lookup(r); c != nil {
			r = r.WithContext(context.WithValue(r.Context(), clientContextKey, c))
		}
		next.ServeHTTP(w, r)
	})
}

// Protect gates the wrapped routes on the session state. An empty role only
// requires authentication. Must be used after WithClient.
func (ui *UI) Protect(required model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := ClientFromContext(r.Context())
			if c == nil {
				http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
				return
			}
			if to := c.Nav.TakeRedirect(); to != "" {
				http.Redirect(w, r, to, http.StatusSeeOther)
				return
			}

			d := guard.Decide(c.Session.State(), required, r.URL.RequestURI())
			switch d.Kind {
			case guard.ShowLoading:
				ui.render(w, http.StatusOK, "loading", map[string]any{
					"Title":          "Authenticating... - Jarvis",
					"RefreshSeconds": 1,
				})
			case guard.RedirectLogin:
				http.Redirect(w, r, d.Target+"?from="+url.QueryEscape(d.From), http.StatusSeeOther)
			case guard.RedirectHome:
				http.Redirect(w, r, d.Target, http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
