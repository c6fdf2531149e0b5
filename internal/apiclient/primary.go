package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/me/jarvis/internal/logging"
	"github.com/me/jarvis/internal/store"
	"github.com/me/jarvis/pkg/model"
)

// PrimaryAPI is the primary backend: authentication, users, documents, ingestion.
type PrimaryAPI struct {
	*Client
	// ValidateTimeout bounds the token validation call.
	ValidateTimeout time.Duration
}

// NewPrimary creates a PrimaryAPI for baseURL.
func NewPrimary(baseURL string, tokens store.TokenStorage, timeout, validateTimeout time.Duration, logger *slog.Logger) *PrimaryAPI {
	return &PrimaryAPI{
		Client:          New(baseURL, tokens, timeout, logger.With("backend", "primary")),
		ValidateTimeout: validateTimeout,
	}
}

// --- Auth ---

// Login exchanges credentials for a user and token.
func (p *PrimaryAPI) Login(ctx context.Context, creds model.Credentials) (*model.AuthResult, error) {
	p.Logger.Info("attempting login", "email", creds.Email)

	var res model.AuthResult
	if err := p.sendJSON(ctx, http.MethodPost, "/auth/login", creds, &res); err != nil {
		p.Logger.Warn("login failed", "email", creds.Email, "error", err)
		return nil, err
	}
	if err := checkAuthResult(&res); err != nil {
		return nil, err
	}
	p.Logger.Info("login successful", "user_id", res.User.ID, "role", res.User.Role, logging.Token(res.Token))
	return &res, nil
}

// Register creates an account and returns its user and token.
func (p *PrimaryAPI) Register(ctx context.Context, reg model.Registration) (*model.AuthResult, error) {
	p.Logger.Info("attempting registration", "username", reg.Username, "email", reg.Email)

	var res model.AuthResult
	if err := p.sendJSON(ctx, http.MethodPost, "/auth/register", reg, &res); err != nil {
		p.Logger.Warn("registration failed", "email", reg.Email, "error", err)
		return nil, err
	}
	if err := checkAuthResult(&res); err != nil {
		return nil, err
	}
	p.Logger.Info("registration successful", "user_id", res.User.ID, logging.Token(res.Token))
	return &res, nil
}

// ValidateToken asks the server whether token is still accepted.
// The result's Token is set only when the server renewed it.
func (p *PrimaryAPI) ValidateToken(ctx context.Context, token string) (*model.AuthResult, error) {
	if p.ValidateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.ValidateTimeout)
		defer cancel()
	}

	var res model.AuthResult
	err := p.do(ctx, request{
		method:      http.MethodPost,
		path:        ValidatePath,
		body:        bytes.NewReader([]byte("{}")),
		contentType: "application/json",
		bearer:      token,
	}, &res)
	if err != nil {
		p.Logger.Warn("token validation failed", "error", err)
		return nil, err
	}
	if res.User != nil {
		res.User.Role, _ = model.ParseRole(string(res.User.Role))
	}
	p.Logger.Debug("token validation successful")
	return &res, nil
}

// checkAuthResult rejects a 2xx body that lacks the user or token, and
// normalises the role onto the closed set.
func checkAuthResult(res *model.AuthResult) error {
	if res.User == nil || res.Token == "" {
		return fmt.Errorf("auth response missing user or token")
	}
	res.User.Role, _ = model.ParseRole(string(res.User.Role))
	return nil
}

// --- Users ---

// ListUsers returns all accounts.
func (p *PrimaryAPI) ListUsers(ctx context.Context) ([]model.Account, error) {
	var out []model.Account
	if err := p.getJSON(ctx, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListUsersByRole returns the accounts holding role.
func (p *PrimaryAPI) ListUsersByRole(ctx context.Context, role model.Role) ([]model.Account, error) {
	var out []model.Account
	if err := p.getJSON(ctx, "/users/role/"+url.PathEscape(string(role)), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUser returns one account.
func (p *PrimaryAPI) GetUser(ctx context.Context, id string) (*model.Account, error) {
	var out model.Account
	if err := p.getJSON(ctx, "/users/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUser creates an account.
func (p *PrimaryAPI) CreateUser(ctx context.Context, req model.CreateAccountRequest) (*model.Account, error) {
	var out model.Account
	if err := p.sendJSON(ctx, http.MethodPost, "/users", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser patches an account. Empty fields are left unchanged.
func (p *PrimaryAPI) UpdateUser(ctx context.Context, id string, req model.UpdateAccountRequest) (*model.Account, error) {
	var out model.Account
	if err := p.sendJSON(ctx, http.MethodPatch, "/users/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes an account.
func (p *PrimaryAPI) DeleteUser(ctx context.Context, id string) error {
	return p.delete(ctx, "/users/"+url.PathEscape(id))
}

// --- Documents ---

// ListDocuments returns all documents.
func (p *PrimaryAPI) ListDocuments(ctx context.Context) ([]model.Document, error) {
	var out []model.Document
	if err := p.getJSON(ctx, "/documents", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDocument returns one document.
func (p *PrimaryAPI) GetDocument(ctx context.Context, id string) (*model.Document, error) {
	var out model.Document
	if err := p.getJSON(ctx, "/documents/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Upload is a new document: metadata plus file content.
type Upload struct {
	Title       string
	Description string
	Filename    string
	Content     io.Reader
}

// UploadDocument sends the document as multipart/form-data.
func (p *PrimaryAPI) UploadDocument(ctx context.Context, up Upload) (*model.Document, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("title", up.Title); err != nil {
		return nil, err
	}
	if err := mw.WriteField("description", up.Description); err != nil {
		return nil, err
	}
	fw, err := mw.CreateFormFile("file", up.Filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, up.Content); err != nil {
		return nil, fmt.Errorf("copy file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var out model.Document
	err = p.do(ctx, request{
		method:      http.MethodPost,
		path:        "/documents",
		body:        &buf,
		contentType: mw.FormDataContentType(),
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateDocument patches title and/or description.
func (p *PrimaryAPI) UpdateDocument(ctx context.Context, id string, req model.UpdateDocumentRequest) (*model.Document, error) {
	var out model.Document
	if err := p.sendJSON(ctx, http.MethodPatch, "/documents/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteDocument removes a document.
func (p *PrimaryAPI) DeleteDocument(ctx context.Context, id string) error {
	return p.delete(ctx, "/documents/"+url.PathEscape(id))
}

// --- Ingestion ---

// ListIngestions returns all ingestion runs.
func (p *PrimaryAPI) ListIngestions(ctx context.Context) ([]model.Ingestion, error) {
	var out []model.Ingestion
	if err := p.getJSON(ctx, "/ingestion", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetIngestion returns one ingestion run.
func (p *PrimaryAPI) GetIngestion(ctx context.Context, id string) (*model.Ingestion, error) {
	var out model.Ingestion
	if err := p.getJSON(ctx, "/ingestion/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListIngestionsByDocument returns the runs for one document.
func (p *PrimaryAPI) ListIngestionsByDocument(ctx context.Context, documentID string) ([]model.Ingestion, error) {
	var out []model.Ingestion
	if err := p.getJSON(ctx, "/ingestion/document/"+url.PathEscape(documentID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TriggerIngestion starts the ingestion pipeline for a document.
func (p *PrimaryAPI) TriggerIngestion(ctx context.Context, documentID string) (*model.Ingestion, error) {
	var out model.Ingestion
	body := map[string]string{"documentId": documentID}
	if err := p.sendJSON(ctx, http.MethodPost, "/ingestion", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelIngestion cancels a run.
func (p *PrimaryAPI) CancelIngestion(ctx context.Context, id string) error {
	return p.delete(ctx, "/ingestion/"+url.PathEscape(id))
}
