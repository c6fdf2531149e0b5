package ui

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/me/jarvis/internal/authtoken"
	"github.com/me/jarvis/internal/authtoken/tokentest"
	"github.com/me/jarvis/internal/config"
	"github.com/me/jarvis/internal/logging"
	"github.com/me/jarvis/internal/store"
	"github.com/me/jarvis/pkg/model"
)

const testPassword = "password1"

// fakeBackend serves the primary API under /api and the Q&A API under /py.
type fakeBackend struct {
	t *testing.T

	mu            sync.Mutex
	role          string // role issued at login
	docsStatus    int    // when set, GET /documents fails with it
	triggerStatus int    // when set, POST /ingestion fails with it
	documents     []model.Document
	ingestions    []model.Ingestion
	cancels       int // DELETE /ingestion/{id} calls
	users         []model.Account
	selected      []string
	questions     []model.Question
}

func newFakeBackend(t *testing.T) *fakeBackend {
	return &fakeBackend{
		t:    t,
		role: "admin",
		documents: []model.Document{
			{ID: "d1", Title: "Company Policy", FileSize: 2048, CreatedAt: time.Now().Add(-time.Hour), UploadedBy: model.Uploader{Username: "admin"}},
			{ID: "d2", Title: "Research Paper", FileSize: 4096, CreatedAt: time.Now(), UploadedBy: model.Uploader{Username: "editor"}},
		},
		users: []model.Account{
			{ID: "1", Username: "alice", Email: "alice@example.com", Role: model.RoleAdmin},
			{ID: "2", Username: "bob", Email: "bob@example.com", Role: model.RoleViewer},
		},
	}
}

func (b *fakeBackend) set(fn func(b *fakeBackend)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(b)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (b *fakeBackend) authorized(w http.ResponseWriter, r *http.Request) bool {
	tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !authtoken.IsValid(tok) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"statusCode": 401, "message": "Unauthorized"})
		return false
	}
	return true
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds model.Credentials
		json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != testPassword {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"statusCode": 401, "message": "Invalid credentials"})
			return
		}
		b.mu.Lock()
		role := b.role
		b.mu.Unlock()
		tok := tokentest.Valid(b.t, "1", role)
		writeJSON(w, http.StatusOK, model.AuthResult{User: authtoken.UserFromToken(tok), Token: tok})
	})
	mux.HandleFunc("POST /api/auth/validate-token", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(w, r) {
			return
		}
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		writeJSON(w, http.StatusOK, model.AuthResult{User: authtoken.UserFromToken(tok)})
	})
	mux.HandleFunc("GET /api/documents", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.docsStatus != 0 {
			writeJSON(w, b.docsStatus, map[string]any{"message": http.StatusText(b.docsStatus)})
			return
		}
		writeJSON(w, http.StatusOK, b.documents)
	})
	mux.HandleFunc("GET /api/ingestion", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, b.ingestions)
	})
	mux.HandleFunc("POST /api/ingestion", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.triggerStatus != 0 {
			writeJSON(w, b.triggerStatus, map[string]any{"message": "Forbidden resource"})
			return
		}
		var body struct {
			DocumentID string `json:"documentId"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		ing := model.Ingestion{ID: "i1", DocumentID: body.DocumentID, Status: model.IngestionPending, StartedAt: time.Now()}
		b.ingestions = append(b.ingestions, ing)
		writeJSON(w, http.StatusCreated, ing)
	})
	mux.HandleFunc("DELETE /api/ingestion/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.cancels++
		for i := range b.ingestions {
			if b.ingestions[i].ID == r.PathValue("id") {
				b.ingestions[i].Status = model.IngestionFailed
			}
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/users", func(w http.ResponseWriter, r *http.Request) {
		if !b.authorized(w, r) {
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, b.users)
	})
	mux.HandleFunc("GET /py/qa/history", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []model.QASession{{
			ID:     "s1",
			UserID: r.URL.Query().Get("user_id"),
			Questions: []model.QAEntry{
				{ID: "q1", Text: "What is the remote work policy?", Timestamp: time.Now().Add(-time.Hour), Answer: model.Answer{Text: "Two days a week."}},
			},
		}})
	})
	mux.HandleFunc("GET /py/selection", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		writeJSON(w, http.StatusOK, b.selected)
	})
	mux.HandleFunc("POST /py/selection", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			DocumentIDs []string `json:"documentIds"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		b.set(func(b *fakeBackend) { b.selected = body.DocumentIDs })
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /py/qa", func(w http.ResponseWriter, r *http.Request) {
		var q model.Question
		json.NewDecoder(r.Body).Decode(&q)
		b.set(func(b *fakeBackend) { b.questions = append(b.questions, q) })
		writeJSON(w, http.StatusOK, model.Answer{
			Text:    "The policy allows remote work.",
			Sources: []model.Source{{DocumentID: "d1", DocumentTitle: "Company Policy", Excerpt: "remote", RelevanceScore: 0.9}},
		})
	})
	return mux
}

// newTestUI starts the console against a fake backend.
func newTestUI(t *testing.T, be *fakeBackend, st store.Store) (*httptest.Server, *ClientManager) {
	t.Helper()
	backend := httptest.NewServer(be.handler())
	t.Cleanup(backend.Close)

	if st == nil {
		st = store.NewMemoryStore()
	}
	logger := logging.Discard()
	cm := NewClientManager(st, ClientConfig{
		Backends: config.BackendConfig{
			NestJSURL:       backend.URL + "/api",
			PythonURL:       backend.URL + "/py",
			RequestTimeout:  5 * time.Second,
			ValidateTimeout: 5 * time.Second,
		},
		CheckInterval: time.Hour,
	}, logger)
	t.Cleanup(cm.Close)

	r := chi.NewRouter()
	New(cm, logger).RegisterRoutes(r)
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts, cm
}

// browser keeps cookies and does not follow redirects.
type browser struct {
	t      *testing.T
	base   string
	client *http.Client
}

func newBrowser(t *testing.T, base string) *browser {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &browser{
		t:    t,
		base: base,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

type page struct {
	Status   int
	Location string
	Body     string
}

func (b *browser) do(req *http.Request) page {
	b.t.Helper()
	resp, err := b.client.Do(req)
	require.NoError(b.t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return page{Status: resp.StatusCode, Location: resp.Header.Get("Location"), Body: string(body)}
}

func (b *browser) get(path string) page {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodGet, b.base+path, nil)
	require.NoError(b.t, err)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values) page {
	b.t.Helper()
	req, err := http.NewRequest(http.MethodPost, b.base+path, strings.NewReader(form.Encode()))
	require.NoError(b.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) login(from string) page {
	b.t.Helper()
	return b.post("/login", url.Values{"email": {"alice@example.com"}, "password": {testPassword}, "from": {from}})
}

func (b *browser) cookie() string {
	u, _ := url.Parse(b.base)
	for _, c := range b.client.Jar.Cookies(u) {
		if c.Name == ClientCookieName {
			return c.Value
		}
	}
	return ""
}
