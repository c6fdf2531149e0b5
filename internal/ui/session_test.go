package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/me/jarvis/internal/authtoken/tokentest"
	"github.com/me/jarvis/internal/store"
	"github.com/me/jarvis/pkg/model"
)

func TestClientManager_CookieLifecycle(t *testing.T) {
	_, cm := newTestUI(t, newFakeBackend(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	c := cm.ClientFromRequest(w, req)
	require.NotNil(t, c)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, ClientCookieName, cookies[0].Name)
	assert.Equal(t, c.ID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	// Same cookie, same bundle, no new cookie.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	assert.Same(t, c, cm.ClientFromRequest(w, req))
	assert.Empty(t, w.Result().Cookies())

	// A forged cookie value is replaced.
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: ClientCookieName, Value: "../../etc"})
	w = httptest.NewRecorder()
	other := cm.ClientFromRequest(w, req)
	assert.NotEqual(t, c.ID, other.ID)
	assert.Len(t, w.Result().Cookies(), 1)
	assert.Equal(t, 2, cm.Len())
}

func TestClientManager_MountRestoresSession(t *testing.T) {
	st := store.NewMemoryStore()
	id := uuid.NewString()
	tok := tokentest.Valid(t, "7", "editor")
	require.NoError(t, st.SetItem(context.Background(), id, store.TokenKey, tok))

	_, cm := newTestUI(t, newFakeBackend(t), st)
	c := cm.Get(context.Background(), id)

	state := c.Session.State()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, tok, state.Token)
	require.NotNil(t, state.User)
	assert.Equal(t, "7", state.User.ID)
	assert.Equal(t, model.RoleEditor, state.User.Role)
}

func TestClientManager_MountPurgesExpiredToken(t *testing.T) {
	st := store.NewMemoryStore()
	id := uuid.NewString()
	require.NoError(t, st.SetItem(context.Background(), id, store.TokenKey, tokentest.Expired(t, "7", "editor")))

	_, cm := newTestUI(t, newFakeBackend(t), st)
	c := cm.Get(context.Background(), id)

	assert.False(t, c.Session.State().IsAuthenticated)
	_, ok, err := st.GetItem(context.Background(), id, store.TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClientManager_Sweep(t *testing.T) {
	_, cm := newTestUI(t, newFakeBackend(t), nil)
	now := time.Now()
	cm.now = func() time.Time { return now }

	stale := cm.Get(context.Background(), uuid.NewString())
	now = now.Add(90 * time.Minute)
	fresh := cm.Get(context.Background(), uuid.NewString())
	now = now.Add(45 * time.Minute)

	assert.Equal(t, 1, cm.Sweep())
	assert.Equal(t, 1, cm.Len())

	// The swept client is mounted again on its next request.
	again := cm.Get(context.Background(), stale.ID)
	assert.NotSame(t, stale, again)
	assert.Same(t, fresh, cm.Get(context.Background(), fresh.ID))
}

func TestClientManager_EvictsLeastRecentlySeen(t *testing.T) {
	_, cm := newTestUI(t, newFakeBackend(t), nil)
	cm.cfg.MaxClients = 2
	now := time.Now()
	cm.now = func() time.Time { return now }

	first := cm.Get(context.Background(), uuid.NewString())
	now = now.Add(time.Minute)
	second := cm.Get(context.Background(), uuid.NewString())
	now = now.Add(time.Minute)
	assert.Same(t, first, cm.Get(context.Background(), first.ID))
	now = now.Add(time.Minute)

	cm.Get(context.Background(), uuid.NewString())
	assert.Equal(t, 2, cm.Len())
	assert.Same(t, first, cm.Get(context.Background(), first.ID))
	assert.NotSame(t, second, cm.Get(context.Background(), second.ID))
}

func TestNotFound_WithoutCookieMountsNothing(t *testing.T) {
	ts, cm := newTestUI(t, newFakeBackend(t), nil)

	resp, err := http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, resp.Cookies())
	assert.Equal(t, 0, cm.Len())
}

func TestNavigator(t *testing.T) {
	var n Navigator
	n.Visit("/documents")
	assert.Equal(t, "/documents", n.Location())
	assert.Empty(t, n.TakeRedirect())

	n.Navigate("/login?session=expired")
	assert.Equal(t, "/login?session=expired", n.Location())
	assert.Equal(t, "/login?session=expired", n.TakeRedirect())
	assert.Empty(t, n.TakeRedirect())
}

func TestSafeRedirect(t *testing.T) {
	tests := map[string]string{
		"":                     "/",
		"/documents":           "/documents",
		"/qa?x=1":              "/qa?x=1",
		"https://evil.example": "/",
		"//evil.example":       "/",
		"/\\evil.example":      "/",
		"/login":               "/",
		"/register":            "/",
	}
	for in, want := range tests {
		assert.Equal(t, want, safeRedirect(in), "safeRedirect(%q)", in)
	}
}
