package ui

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/me/jarvis/internal/apiclient"
	"github.com/me/jarvis/pkg/model"
)

// maxUploadMemory bounds the multipart form held in memory.
const maxUploadMemory = 32 << 20

const msgNoEditPermission = "You don't have permission to modify documents. Contact an admin for assistance."

// HandleDocumentList renders the documents page.
func (ui *UI) HandleDocumentList(w http.ResponseWriter, r *http.Request) {
	c := ClientFromContext(r.Context())
	docs, err := c.Primary.ListDocuments(r.Context())
	if err != nil {
		ui.apiFailed(w, r, c, "Failed to load documents", err)
		return
	}

	data := ui.page(r, "Documents")
	data["Documents"] = docs
	data["CanEdit"] = model.IsEditor(c.Session.State().Role())
	ui.render(w, http.StatusOK, "documents", data)
}

// HandleDocumentUpload uploads a document from a multipart form.
func (ui *UI) HandleDocumentUpload(w http.ResponseWriter, r *http.Request) {
	c := ClientFromContext(r.Context())
	if !model.IsEditor(c.Session.State().Role()) {
		ui.back(w, r, c, "/documents", "error", msgNoEditPermission)
		return
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		ui.back(w, r, c, "/documents", "error", "Invalid upload form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		ui.back(w, r, c, "/documents", "error", "Please choose a file to upload")
		return
	}
	defer file.Close()

	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		title = header.Filename
	}
	doc, err := c.Primary.UploadDocument(r.Context(), apiclient.Upload{
		Title:       title,
		Description: strings.TrimSpace(r.FormValue("description")),
		Filename:    header.Filename,
		Content:     file,
	})
	if err != nil {
		ui.back(w, r, c, "/documents", "error", "Failed to upload document: "+apiclient.Message(err))
		return
	}
	ui.logger.Info("document uploaded", "document", doc.ID, "size", header.Size)
	ui.back(w, r, c, "/documents", "notice", "Uploaded "+doc.Title)
}

// HandleDocumentUpdate edits a document's title and description.
func (ui *UI) HandleDocumentUpdate(w http.ResponseWriter, r *http.Request) {
	c := ClientFromContext(r.Context())
	if !model.IsEditor(c.Session.State().Role()) {
		ui.back(w, r, c, "/documents", "error", msgNoEditPermission)
		return
	}
	if err := r.ParseForm(); err != nil {
		ui.back(w, r, c, "/documents", "error", "Invalid request")
		return
	}

	id := chi.URLParam(r, "id")
	req := model.UpdateDocumentRequest{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
	if _, err := c.Primary.UpdateDocument(r.Context(), id, req); err != nil {
		ui.back(w, r, c, "/documents", "error", "Failed to update document: "+apiclient.Message(err))
		return
	}
	ui.back(w, r, c, "/documents", "notice", "Document updated")
}

// HandleDocumentDelete deletes a document.
func (ui *UI) HandleDocumentDelete(w http.ResponseWriter, r *http.Request) {
	c := ClientFromContext(r.Context())
	if !model.IsEditor(c.Session.State().Role()) {
		ui.back(w, r, c, "/documents", "error", msgNoEditPermission)
		return
	}

	id := chi.URLParam(r, "id")
	if err := c.Primary.DeleteDocument(r.Context(), id); err != nil {
		ui.back(w, r, c, "/documents", "error", "Failed to delete document: "+apiclient.Message(err))
		return
	}
	ui.logger.Info("document deleted", "document", id)
	ui.back(w, r, c, "/documents", "notice", "Document deleted")
}
