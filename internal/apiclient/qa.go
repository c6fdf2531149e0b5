package apiclient

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/me/jarvis/internal/store"
	"github.com/me/jarvis/pkg/model"
)

// QAAPI is the question-answering service.
type QAAPI struct {
	*Client
}

// NewQA creates a QAAPI for baseURL.
func NewQA(baseURL string, tokens store.TokenStorage, timeout time.Duration, logger *slog.Logger) *QAAPI {
	return &QAAPI{Client: New(baseURL, tokens, timeout, logger.With("backend", "qa"))}
}

// Ask submits a question, optionally restricted to some documents.
func (q *QAAPI) Ask(ctx context.Context, question model.Question) (*model.Answer, error) {
	var out model.Answer
	if err := q.sendJSON(ctx, http.MethodPost, "/qa", question, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// History returns the Q&A sessions of a user.
func (q *QAAPI) History(ctx context.Context, userID string) ([]model.QASession, error) {
	var out []model.QASession
	if err := q.getJSON(ctx, "/qa/history", url.Values{"user_id": {userID}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// HistoryByID returns one Q&A session.
func (q *QAAPI) HistoryByID(ctx context.Context, id string) (*model.QASession, error) {
	var out model.QASession
	if err := q.getJSON(ctx, "/qa/history/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SelectDocuments saves the set of documents questions are asked against.
func (q *QAAPI) SelectDocuments(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	return q.sendJSON(ctx, http.MethodPost, "/selection", map[string][]string{"documentIds": ids}, nil)
}

// SelectedDocuments returns the saved selection.
func (q *QAAPI) SelectedDocuments(ctx context.Context) ([]string, error) {
	var out []string
	if err := q.getJSON(ctx, "/selection", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
