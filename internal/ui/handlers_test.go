package ui

import (
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/me/jarvis/pkg/model"
)

func TestProtect_AnonymousRedirectsToLogin(t *testing.T) {
	ts, _ := newTestUI(t, newFakeBackend(t), nil)
	b := newBrowser(t, ts.URL)

	p := b.get("/documents")
	assert.Equal(t, http.StatusSeeOther, p.Status)
	assert.Equal(t, "/login?from=%2Fdocuments", p.Location)
	assert.NotEmpty(t, b.cookie(), "client cookie issued on first sight")
}

func TestLogin_RedirectsToRequestedPage(t *testing.T) {
	ts, _ := newTestUI(t, newFakeBackend(t), nil)
	b := newBrowser(t, ts.URL)

	p := b.login("/documents")
	require.Equal(t, http.StatusSeeOther, p.Status)
	assert.Equal(t, "/documents", p.Location)

	p = b.get("/documents")
	require.Equal(t, http.StatusOK, p.Status)
	assert.Contains(t, p.Body, "Company Policy")
	assert.Contains(t, p.Body, "2.0 kB")

	// Signed-in users skip the login page.
	p = b.get("/login")
	assert.Equal(t, http.StatusSeeOther, p.Status)
	assert.Equal(t, "/", p.Location)
}

func TestLogin_ExternalFromIgnored(t *testing.T) {
	ts, _ := newTestUI(t, newFakeBackend(t), nil)
	b := newBrowser(t, ts.URL)

	p := b.login("//evil.example.com/")
	assert.Equal(t, "/", p.Location)
}

func TestLogin_FailureShowsErrorOnce(t *testing.T) {
	ts, _ := newTestUI(t, newFakeBackend(t), nil)
	b := newBrowser(t, ts.URL)

	p := b.post("/login", url.Values{"email": {"alice@example.com"}, "password": {"wrong"}})
	require.Equal(t, http.StatusSeeOther, p.Status)
	assert.Equal(t, "/login", p.Location)

	p = b.get("/login")
	assert.Contains(t, p.Body, "Invalid credentials")

	p = b.get("/login")
	assert.NotContains(t, p.Body, "Invalid credentials")
}

func TestLogin_ValidationError(t *testing.T) {
	ts, _ := newTestUI(t, newFakeBackend(t), nil)
	b := newBrowser(t, ts.URL)

	p := b.post("/login", url.Values{"email": {"not-an-email"}, "password": {"x"}})
	assert.Equal(t, http.StatusBadRequest, p.Status)
	assert.Contains(t, p.Body, "Must be a valid email")
}

func TestRegister_PasswordsMustMatch(t *testing.T) {
	ts, _ := newTestUI(t, newFakeBackend(t), nil)
	b := newBrowser(t, ts.URL)

	p := b.post("/register", url.Values{
		"username":         {"bob"},
		"email":            {"bob@example.com"},
		"password":         {"password1"},
		"confirm_password": {"password2"},
	})
	assert.Equal(t, http.StatusBadRequest, p.Status)
	assert.Contains(t, p.Body, "Passwords must match")
}

func TestLogout(t *testing.T) {
	ts, _ := newTestUI(t, newFakeBackend(t), nil)
	b := newBrowser(t, ts.URL)
	b.login("")

	p := b.get("/logout")
	assert.Equal(t, "/login", p.Location)

	p = b.get("/")
	assert.Equal(t, http.StatusSeeOther, p.Status)
	assert.Equal(t, "/login?from=%2F", p.Location)
}

func TestDashboard(t *testing.T) {
	ts, _ := newTestUI(t, newFakeBackend(t), nil)
	b := newBrowser(t, ts.URL)
	b.login("")

	p := b.get("/")
	require.Equal(t, http.StatusOK, p.Status)
	assert.Contains(t, p.Body, "Welcome, user1")
	assert.Contains(t, p.Body, "What is the remote work policy?")
	assert.Contains(t, p.Body, `href="/users"`, "admin sees the users menu")
}

func TestUsers_AdminOnly(t *testing.T) {
	be := newFakeBackend(t)
	ts, _ := newTestUI(t, be, nil)

	admin := newBrowser(t, ts.URL)
	admin.login("")
	p := admin.get("/users")
	require.Equal(t, http.StatusOK, p.Status)
	assert.Contains(t, p.Body, "bob@example.com")

	be.set(func(b *fakeBackend) { b.role = "viewer" })
	viewer := newBrowser(t, ts.URL)
	viewer.login("")
	p = viewer.get("/users")
	assert.Equal(t, http.StatusSeeOther, p.Status)
	assert.Equal(t, "/", p.Location)

	p = viewer.get("/")
	assert.NotContains(t, p.Body, `href="/users"`)
}

func TestUnauthorizedResponse_EndsSession(t *testing.T) {
	be := newFakeBackend(t)
	ts, _ := newTestUI(t, be, nil)
	b := newBrowser(t, ts.URL)
	b.login("")

	be.set(func(b *fakeBackend) { b.docsStatus = http.StatusUnauthorized })
	p := b.get("/documents")
	assert.Equal(t, http.StatusSeeOther, p.Status)
	assert.Equal(t, "/login?session=expired", p.Location)

	p = b.get("/login?session=expired")
	assert.Contains(t, p.Body, "Your session has expired. Please sign in again.")

	be.set(func(b *fakeBackend) { b.docsStatus = 0 })
	p = b.get("/documents")
	assert.Equal(t, http.StatusSeeOther, p.Status, "session was logged out")
}

func TestBackendFailure_RendersError(t *testing.T) {
	be := newFakeBackend(t)
	ts, _ := newTestUI(t, be, nil)
	b := newBrowser(t, ts.URL)
	b.login("")

	be.set(func(b *fakeBackend) { b.docsStatus = http.StatusInternalServerError })
	p := b.get("/documents")
	assert.Equal(t, http.StatusBadGateway, p.Status)
	assert.Contains(t, p.Body, "Failed to load documents")

	// A server error does not end the session.
	be.set(func(b *fakeBackend) { b.docsStatus = 0 })
	p = b.get("/documents")
	assert.Equal(t, http.StatusOK, p.Status)
}

func TestIngestion(t *testing.T) {
	t.Run("trigger and auto refresh", func(t *testing.T) {
		ts, _ := newTestUI(t, newFakeBackend(t), nil)
		b := newBrowser(t, ts.URL)
		b.login("")

		p := b.get("/ingestion")
		require.Equal(t, http.StatusOK, p.Status)
		assert.NotContains(t, p.Body, `http-equiv="refresh"`)

		p = b.post("/ingestion", url.Values{"document_id": {"d1"}})
		assert.Equal(t, "/ingestion?notice=Ingestion+started", p.Location)

		p = b.get("/ingestion")
		assert.Contains(t, p.Body, `http-equiv="refresh" content="5"`)
		assert.Contains(t, p.Body, "pending")
	})

	t.Run("forbidden by backend", func(t *testing.T) {
		be := newFakeBackend(t)
		be.triggerStatus = http.StatusForbidden
		ts, _ := newTestUI(t, be, nil)
		b := newBrowser(t, ts.URL)
		b.login("")

		p := b.post("/ingestion", url.Values{"document_id": {"d1"}})
		assert.Equal(t, "/ingestion?error="+url.QueryEscape(msgIngestForbidden), p.Location)
	})

	t.Run("viewer cannot trigger", func(t *testing.T) {
		be := newFakeBackend(t)
		be.role = "viewer"
		ts, _ := newTestUI(t, be, nil)
		b := newBrowser(t, ts.URL)
		b.login("")

		p := b.get("/ingestion")
		assert.Contains(t, p.Body, "You don&#39;t have permission to trigger ingestion")
		assert.NotContains(t, p.Body, "Start Ingestion")

		p = b.post("/ingestion", url.Values{"document_id": {"d1"}})
		assert.Equal(t, "/ingestion?error="+url.QueryEscape(msgNoIngestPermission), p.Location)
	})

	t.Run("viewer cannot cancel", func(t *testing.T) {
		be := newFakeBackend(t)
		be.role = "viewer"
		be.ingestions = []model.Ingestion{{ID: "i1", DocumentID: "d1", Status: model.IngestionProcessing, StartedAt: time.Now()}}
		ts, _ := newTestUI(t, be, nil)
		b := newBrowser(t, ts.URL)
		b.login("")

		p := b.get("/ingestion")
		assert.NotContains(t, p.Body, "/ingestion/i1/cancel")

		p = b.post("/ingestion/i1/cancel", nil)
		assert.Equal(t, "/ingestion?error="+url.QueryEscape(msgNoIngestPermission), p.Location)
		be.mu.Lock()
		defer be.mu.Unlock()
		assert.Equal(t, 0, be.cancels)
	})

	t.Run("editor cancels", func(t *testing.T) {
		be := newFakeBackend(t)
		be.role = "editor"
		be.ingestions = []model.Ingestion{{ID: "i1", DocumentID: "d1", Status: model.IngestionProcessing, StartedAt: time.Now()}}
		ts, _ := newTestUI(t, be, nil)
		b := newBrowser(t, ts.URL)
		b.login("")

		p := b.get("/ingestion")
		assert.Contains(t, p.Body, `action="/ingestion/i1/cancel"`)

		p = b.post("/ingestion/i1/cancel", nil)
		assert.Equal(t, "/ingestion?notice=Ingestion+cancelled", p.Location)
		be.mu.Lock()
		defer be.mu.Unlock()
		assert.Equal(t, 1, be.cancels)
	})
}

func TestQA(t *testing.T) {
	be := newFakeBackend(t)
	ts, _ := newTestUI(t, be, nil)
	b := newBrowser(t, ts.URL)
	b.login("")

	// Everything selected by default.
	p := b.get("/qa")
	require.Equal(t, http.StatusOK, p.Status)
	assert.Contains(t, p.Body, `value="d1" checked`)
	assert.Contains(t, p.Body, `value="d2" checked`)
	assert.Contains(t, p.Body, "Two days a week.")

	p = b.post("/qa/select", url.Values{"documents": {"d2"}})
	assert.Equal(t, "/qa?notice=Selection+saved", p.Location)
	p = b.get("/qa")
	assert.Contains(t, p.Body, `value="d1" >`)
	assert.Contains(t, p.Body, `value="d2" checked`)

	p = b.post("/qa/ask", url.Values{"question": {"Can I work remotely?"}, "documents": {"d2"}})
	require.Equal(t, http.StatusOK, p.Status)
	assert.Contains(t, p.Body, "The policy allows remote work.")
	assert.Contains(t, p.Body, "90%")

	be.mu.Lock()
	defer be.mu.Unlock()
	require.Len(t, be.questions, 1)
	assert.Equal(t, model.Question{Text: "Can I work remotely?", DocumentIDs: []string{"d2"}}, be.questions[0])
}

func TestNotFound(t *testing.T) {
	ts, _ := newTestUI(t, newFakeBackend(t), nil)
	b := newBrowser(t, ts.URL)

	p := b.get("/nope")
	assert.Equal(t, http.StatusNotFound, p.Status)
	assert.Contains(t, p.Body, "Page Not Found")
}

func TestMenuFor(t *testing.T) {
	texts := func(items []menuItem) []string {
		var out []string
		for _, it := range items {
			out = append(out, it.Text)
		}
		return out
	}
	assert.Equal(t, []string{"Dashboard", "Documents", "Ingestion", "Q&A", "Users"}, texts(menuFor(model.RoleAdmin, "/")))
	assert.Equal(t, []string{"Dashboard", "Documents", "Ingestion", "Q&A"}, texts(menuFor(model.RoleEditor, "/")))

	items := menuFor(model.RoleViewer, "/documents")
	assert.False(t, items[0].Active)
	assert.True(t, items[1].Active)
}

func TestTemplateBytes(t *testing.T) {
	bytes := templateFuncs["bytes"].(func(int64) string)
	assert.Equal(t, "4.1 kB", bytes(4096))
	assert.Equal(t, "-", bytes(0))
	assert.Equal(t, "-", bytes(-5))
}
