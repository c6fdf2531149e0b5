package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/me/jarvis/internal/apiclient"
	"github.com/me/jarvis/pkg/model"
)

// IngestionRefreshSeconds is the auto-refresh period while ingestions run.
const IngestionRefreshSeconds = 5

const (
	msgNoIngestPermission = "You don't have permission to trigger ingestion. Contact an admin for assistance."
	msgIngestForbidden    = "Permission denied: You don't have the required role (admin or editor) to trigger ingestion."
)

// HandleIngestionList renders the ingestion page. While any ingestion is
// pending or processing the page refreshes itself.
func (ui *UI) HandleIngestionList(w http.ResponseWriter, r *http.Request) {
	c := ClientFromContext(r.Context())
	ctx := r.Context()

	ings, err := c.Primary.ListIngestions(ctx)
	if err != nil {
		ui.apiFailed(w, r, c, "Failed to fetch data", err)
		return
	}
	docs, err := c.Primary.ListDocuments(ctx)
	if err != nil {
		ui.apiFailed(w, r, c, "Failed to fetch data", err)
		return
	}

	canTrigger := model.IsEditor(c.Session.State().Role())
	data := ui.page(r, "Ingestion")
	data["Ingestions"] = ings
	data["Documents"] = docs
	data["CanTrigger"] = canTrigger
	if model.AnyActive(ings) {
		data["RefreshSeconds"] = IngestionRefreshSeconds
	}
	if !canTrigger && data["Error"] == "" {
		data["Error"] = msgNoIngestPermission
	}
	ui.render(w, http.StatusOK, "ingestion", data)
}

// HandleIngestionTrigger starts ingestion of the selected document.
func (ui *UI) HandleIngestionTrigger(w http.ResponseWriter, r *http.Request) {
	c := ClientFromContext(r.Context())
	if !model.IsEditor(c.Session.State().Role()) {
		ui.back(w, r, c, "/ingestion", "error", msgNoIngestPermission)
		return
	}
	if err := r.ParseForm(); err != nil {
		ui.back(w, r, c, "/ingestion", "error", "Invalid request")
		return
	}
	docID := r.FormValue("document_id")
	if docID == "" {
		ui.back(w, r, c, "/ingestion", "error", "Please select a document")
		return
	}

	ing, err := c.Primary.TriggerIngestion(r.Context(), docID)
	switch {
	case apiclient.IsForbidden(err):
		ui.back(w, r, c, "/ingestion", "error", msgIngestForbidden)
		return
	case err != nil:
		ui.back(w, r, c, "/ingestion", "error", "Failed to start ingestion: "+apiclient.Message(err))
		return
	}
	ui.logger.Info("ingestion triggered", "ingestion", ing.ID, "document", docID)
	ui.back(w, r, c, "/ingestion", "notice", "Ingestion started")
}

// HandleIngestionCancel cancels a running ingestion.
func (ui *UI) HandleIngestionCancel(w http.ResponseWriter, r *http.Request) {
	c := ClientFromContext(r.Context())
	if !model.IsEditor(c.Session.State().Role()) {
		ui.back(w, r, c, "/ingestion", "error", msgNoIngestPermission)
		return
	}
	id := chi.URLParam(r, "id")
	if err := c.Primary.CancelIngestion(r.Context(), id); err != nil {
		ui.back(w, r, c, "/ingestion", "error", "Failed to cancel ingestion: "+apiclient.Message(err))
		return
	}
	ui.back(w, r, c, "/ingestion", "notice", "Ingestion cancelled")
}
