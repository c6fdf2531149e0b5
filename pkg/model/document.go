package model

import "time"

// Document is an uploaded file tracked by the primary backend.
type Document struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FilePath    string    `json:"filePath"`
	FileType    string    `json:"fileType"`
	FileSize    int64     `json:"fileSize"`
	UploadedBy  Uploader  `json:"uploadedBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Uploader identifies the account that uploaded a document.
type Uploader struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// UpdateDocumentRequest is the body of PATCH /documents/{id}.
type UpdateDocumentRequest struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// IngestionStatus is the pipeline state of one ingestion run.
type IngestionStatus string

const (
	IngestionPending    IngestionStatus = "pending"
	IngestionProcessing IngestionStatus = "processing"
	IngestionCompleted  IngestionStatus = "completed"
	IngestionFailed     IngestionStatus = "failed"
)

// IsActive reports whether the ingestion has not reached a terminal state.
func (s IngestionStatus) IsActive() bool {
	return s == IngestionPending || s == IngestionProcessing
}

// Ingestion is one run of the external ingestion pipeline over a document.
type Ingestion struct {
	ID           string          `json:"id"`
	DocumentID   string          `json:"documentId"`
	Document     DocumentRef     `json:"document"`
	Status       IngestionStatus `json:"status"`
	StartedAt    time.Time       `json:"startedAt"`
	CompletedAt  *time.Time      `json:"completedAt"`
	ErrorMessage *string         `json:"errorMessage"`
}

// DocumentRef is the short form of a document embedded in other records.
type DocumentRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// AnyActive reports whether any ingestion in the list is still running.
func AnyActive(ings []Ingestion) bool {
	for _, ing := range ings {
		if ing.Status.IsActive() {
			return true
		}
	}
	return false
}
