package ui

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/me/jarvis/internal/apiclient"
	"github.com/me/jarvis/internal/authtoken"
	"github.com/me/jarvis/pkg/model"
)

// historyEntry is one asked question, flattened out of its QA session.
type historyEntry struct {
	ID        string
	SessionID string
	Question  string
	Answer    string
	Sources   []model.Source
	Timestamp time.Time
}

// flattenHistory lists every question of sessions, newest first.
func flattenHistory(sessions []model.QASession) []historyEntry {
	var out []historyEntry
	for _, s := range sessions {
		for _, q := range s.Questions {
			out = append(out, historyEntry{
				ID:        q.ID,
				SessionID: s.ID,
				Question:  q.Text,
				Answer:    q.Answer.Text,
				Sources:   q.Answer.Sources,
				Timestamp: q.Timestamp,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out
}

// qaPage gathers the documents, the selection and the history for the Q&A page.
// ok is false when a response has already been written.
func (ui *UI) qaPage(w http.ResponseWriter, r *http.Request, c *Client) (data map[string]any, ok bool) {
	ctx := r.Context()
	docs, err := c.Primary.ListDocuments(ctx)
	if err != nil {
		ui.apiFailed(w, r, c, "Failed to fetch documents", err)
		return nil, false
	}

	// All documents are selected unless the Q&A backend remembers a selection.
	selected := make(map[string]bool, len(docs))
	for _, d := range docs {
		selected[d.ID] = true
	}
	if ids, err := c.QA.SelectedDocuments(ctx); err != nil {
		if ui.followRedirect(w, r, c) {
			return nil, false
		}
		ui.logger.Debug("fetch document selection", "error", err)
	} else if len(ids) > 0 {
		selected = make(map[string]bool, len(ids))
		for _, id := range ids {
			selected[id] = true
		}
	}

	var history []historyEntry
	if u := authtoken.UserFromToken(c.Session.State().Token); u != nil && u.ID != "" {
		sessions, err := c.QA.History(ctx, u.ID)
		if err != nil {
			if ui.followRedirect(w, r, c) {
				return nil, false
			}
			ui.logger.Debug("fetch qa history", "error", err)
		}
		history = flattenHistory(sessions)
	}

	data = ui.page(r, "Q&A")
	data["Documents"] = docs
	data["Selected"] = selected
	data["History"] = history
	data["Question"] = ""
	data["Answer"] = (*model.Answer)(nil)
	return data, true
}

// HandleQA renders the Q&A page.
func (ui *UI) HandleQA(w http.ResponseWriter, r *http.Request) {
	c := ClientFromContext(r.Context())
	data, ok := ui.qaPage(w, r, c)
	if !ok {
		return
	}
	ui.render(w, http.StatusOK, "qa", data)
}

// HandleQAAsk asks a question and renders the answer.
func (ui *UI) HandleQAAsk(w http.ResponseWriter, r *http.Request) {
	c := ClientFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		ui.back(w, r, c, "/qa", "error", "Invalid request")
		return
	}
	text := strings.TrimSpace(r.FormValue("question"))
	if text == "" {
		ui.back(w, r, c, "/qa", "error", "Please enter a question")
		return
	}

	answer, err := c.QA.Ask(r.Context(), model.Question{Text: text, DocumentIDs: r.Form["documents"]})
	if err != nil {
		ui.back(w, r, c, "/qa", "error", "Failed to get an answer: "+apiclient.Message(err))
		return
	}

	data, ok := ui.qaPage(w, r, c)
	if !ok {
		return
	}
	data["Question"] = text
	data["Answer"] = answer
	ui.render(w, http.StatusOK, "qa", data)
}

// HandleQASelect saves the document selection on the Q&A backend.
func (ui *UI) HandleQASelect(w http.ResponseWriter, r *http.Request) {
	c := ClientFromContext(r.Context())
	if err := r.ParseForm(); err != nil {
		ui.back(w, r, c, "/qa", "error", "Invalid request")
		return
	}
	if err := c.QA.SelectDocuments(r.Context(), r.Form["documents"]); err != nil {
		ui.back(w, r, c, "/qa", "error", "Failed to save selection: "+apiclient.Message(err))
		return
	}
	ui.back(w, r, c, "/qa", "notice", "Selection saved")
}
