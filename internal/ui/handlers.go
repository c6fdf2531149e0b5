package ui

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/me/jarvis/internal/apiclient"
	"github.com/me/jarvis/internal/authtoken"
	"github.com/me/jarvis/pkg/model"
)

// UI handles the web user interface.
type UI struct {
	clients   *ClientManager
	logger    *slog.Logger
	startTime time.Time
}

// New creates a new UI handler.
func New(clients *ClientManager, logger *slog.Logger) *UI {
	return &UI{
		clients:   clients,
		logger:    logger.With("component", "ui"),
		startTime: time.Now(),
	}
}

// Clients returns the client registry.
func (ui *UI) Clients() *ClientManager {
	return ui.clients
}

// menuItem is one entry of the navigation bar.
type menuItem struct {
	Text   string
	Path   string
	Role   model.Role
	Active bool
}

var menu = []menuItem{
	{Text: "Dashboard", Path: "/"},
	{Text: "Documents", Path: "/documents"},
	{Text: "Ingestion", Path: "/ingestion"},
	{Text: "Q&A", Path: "/qa"},
	{Text: "Users", Path: "/users", Role: model.RoleAdmin},
}

// menuFor returns the entries visible to role, marking the one for path.
func menuFor(role model.Role, path string) []menuItem {
	var out []menuItem
	for _, item := range menu {
		if item.Role != "" && !role.Satisfies(item.Role) {
			continue
		}
		item.Active = path == item.Path || (item.Path != "/" && strings.HasPrefix(path, item.Path))
		out = append(out, item)
	}
	return out
}

// page returns the data every authenticated page needs.
func (ui *UI) page(r *http.Request, title string) map[string]any {
	data := map[string]any{
		"Title":  title + " - Jarvis",
		"Notice": r.URL.Query().Get("notice"),
		"Error":  r.URL.Query().Get("error"),
	}
	if c := ClientFromContext(r.Context()); c != nil {
		st := c.Session.State()
		data["User"] = st.User
		data["Menu"] = menuFor(st.Role(), r.URL.Path)
	}
	return data
}

// --- Auth Handlers ---

// HandleLogin renders the login page.
func (ui *UI) HandleLogin(w http.ResponseWriter, r *http.Request) {
	c := ClientFromContext(r.Context())
	from := r.URL.Query().Get("from")

	st := c.Session.State()
	if st.IsAuthenticated {
		http.Redirect(w, r, safeRedirect(from), http.StatusSeeOther)
		return
	}

	data := map[string]any{
		"Title":   "Login - Jarvis",
		"Error":   st.Error,
		"Expired": r.URL.Query().Get("session") == "expired",
		"From":    from,
		"Email":   "",
	}
	ui.render(w, http.StatusOK, "login", data)
	// The alert is shown once.
	if st.Error != "" {
		c.Session.ClearError()
	}
}

// HandleLoginPost processes the login form.
func (ui *UI) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	c := ClientFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	from := r.FormValue("from")
	creds := model.Credentials{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	if err := creds.Validate(); err != nil {
		ui.render(w, http.StatusBadRequest, "login", map[string]any{
			"Title":   "Login - Jarvis",
			"Error":   formError(err),
			"Expired": false,
			"From":    from,
			"Email":   creds.Email,
		})
		return
	}

	if err := c.Session.Login(r.Context(), creds); err != nil {
		ui.logger.Info("login failed", "email", creds.Email, "error", err)
		http.Redirect(w, r, loginURL(from), http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, safeRedirect(from), http.StatusSeeOther)
}

// HandleRegister renders the sign-up page.
func (ui *UI) HandleRegister(w http.ResponseWriter, r *http.Request) {
	c := ClientFromContext(r.Context())
	st := c.Session.State()
	if st.IsAuthenticated {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	ui.render(w, http.StatusOK, "register", map[string]any{
		"Title":    "Register - Jarvis",
		"Error":    st.Error,
		"Username": "",
		"Email":    "",
	})
	if st.Error != "" {
		c.Session.ClearError()
	}
}

// HandleRegisterPost processes the sign-up form.
func (ui *UI) HandleRegisterPost(w http.ResponseWriter, r *http.Request) {
	c := ClientFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}

	reg := model.Registration{
		Username: strings.TrimSpace(r.FormValue("username")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	if err := reg.Validate(r.FormValue("confirm_password")); err != nil {
		ui.render(w, http.StatusBadRequest, "register", map[string]any{
			"Title":    "Register - Jarvis",
			"Error":    formError(err),
			"Username": reg.Username,
			"Email":    reg.Email,
		})
		return
	}

	if err := c.Session.Register(r.Context(), reg); err != nil {
		ui.logger.Info("registration failed", "email", reg.Email, "error", err)
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HandleLogout clears the session and redirects to login.
func (ui *UI) HandleLogout(w http.ResponseWriter, r *http.Request) {
	c := ClientFromContext(r.Context())
	if u := c.Session.State().User; u != nil {
		ui.logger.Info("user logged out", "username", u.Username, "client", shortID(c.ID))
	}
	c.Session.Logout(r.Context())
	c.Nav.TakeRedirect()
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// --- Dashboard ---

// HandleDashboard renders the landing page.
func (ui *UI) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	c := ClientFromContext(r.Context())
	ctx := r.Context()
	st := c.Session.State()
	data := ui.page(r, "Dashboard")

	docs, err := c.Primary.ListDocuments(ctx)
	if err != nil {
		if ui.followRedirect(w, r, c) {
			return
		}
		ui.logger.Warn("dashboard: list documents", "error", err)
	}
	ings, err := c.Primary.ListIngestions(ctx)
	if err != nil {
		if ui.followRedirect(w, r, c) {
			return
		}
		ui.logger.Warn("dashboard: list ingestions", "error", err)
	}

	docCount, completed := len(docs), 0
	for _, ing := range ings {
		if ing.Status == model.IngestionCompleted {
			completed++
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.After(docs[j].CreatedAt) })
	if len(docs) > 5 {
		docs = docs[:5]
	}

	var questions []historyEntry
	if u := authtoken.UserFromToken(st.Token); u != nil {
		sessions, err := c.QA.History(ctx, u.ID)
		if err != nil {
			if ui.followRedirect(w, r, c) {
				return
			}
			ui.logger.Warn("dashboard: qa history", "error", err)
		}
		questions = flattenHistory(sessions)
	}
	qaCount := len(questions)
	if len(questions) > 5 {
		questions = questions[:5]
	}

	data["Stats"] = map[string]int{
		"Documents":  docCount,
		"Ingestions": len(ings),
		"Completed":  completed,
		"Questions":  qaCount,
	}
	data["RecentDocuments"] = docs
	data["RecentQuestions"] = questions
	data["Token"] = authtoken.Inspect(st.Token, time.Now())
	data["Uptime"] = time.Since(ui.startTime).Round(time.Second).String()
	ui.render(w, http.StatusOK, "dashboard", data)
}

// HandleNotFound renders the 404 page.
func (ui *UI) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	data := ui.page(r, "Not Found")
	data["Message"] = "The page you're looking for doesn't exist or has been moved."
	ui.render(w, http.StatusNotFound, "notfound", data)
}

// --- Helpers ---

// followRedirect sends the client to a redirect requested while serving r,
// typically after the backend rejected its token. It reports whether it did.
func (ui *UI) followRedirect(w http.ResponseWriter, r *http.Request, c *Client) bool {
	to := c.Nav.TakeRedirect()
	if to == "" {
		return false
	}
	http.Redirect(w, r, to, http.StatusSeeOther)
	return true
}

// apiFailed renders the error page for a failed backend call.
func (ui *UI) apiFailed(w http.ResponseWriter, r *http.Request, c *Client, message string, err error) {
	if ui.followRedirect(w, r, c) {
		return
	}
	ui.logger.Warn(message, "error", err)
	data := ui.page(r, "Error")
	data["Message"] = message + ": " + apiclient.Message(err)
	ui.render(w, http.StatusBadGateway, "error", data)
}

// back redirects to path with a notice or error query parameter.
func (ui *UI) back(w http.ResponseWriter, r *http.Request, c *Client, path, key, msg string) {
	if ui.followRedirect(w, r, c) {
		return
	}
	http.Redirect(w, r, path+"?"+key+"="+url.QueryEscape(msg), http.StatusSeeOther)
}

// formError returns the message of a form validation error.
func formError(err error) string {
	var ae *model.APIError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}

func loginURL(from string) string {
	if from == "" {
		return "/login"
	}
	return "/login?from=" + url.QueryEscape(from)
}

func (ui *UI) render(w http.ResponseWriter, status int, template string, data map[string]any) {
	var buf bytes.Buffer
	if err := renderTemplate(&buf, template, data); err != nil {
		ui.logger.Error("template render failed", "template", template, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
