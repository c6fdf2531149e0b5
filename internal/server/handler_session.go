package server

import (
	"net/http"
	"time"

	"github.com/me/jarvis/internal/authtoken"
	"github.com/me/jarvis/internal/logging"
	"github.com/me/jarvis/internal/ui"
	"github.com/me/jarvis/pkg/model"
)

// sessionState is the JSON view of a client's auth state. The token is
// never returned in full.
type sessionState struct {
	Status          model.SessionStatus `json:"status"`
	User            *model.User         `json:"user"`
	IsAuthenticated bool                `json:"isAuthenticated"`
	Loading         bool                `json:"loading"`
	Error           string              `json:"error,omitempty"`
	Token           string              `json:"token,omitempty"`
	ExpiresAt       *time.Time          `json:"expiresAt,omitempty"`
}

func newSessionState(st model.AuthState) sessionState {
	out := sessionState{
		Status:          st.Status(),
		User:            st.User,
		IsAuthenticated: st.IsAuthenticated,
		Loading:         st.Loading,
		Error:           st.Error,
		Token:           logging.RedactToken(st.Token),
	}
	if exp, ok := authtoken.ExpirationDate(st.Token); ok {
		exp = exp.UTC()
		out.ExpiresAt = &exp
	}
	return out
}

func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	c := ui.ClientFromContext(r.Context())
	if c == nil {
		respondError(w, reqID, http.StatusUnauthorized, model.NewUnauthorizedError("no client"))
		return
	}
	respondOK(w, reqID, newSessionState(c.Session.State()))
}

// handleSessionFocus runs the focus check and reports the resulting state.
func (s *Server) handleSessionFocus(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	c := ui.ClientFromContext(r.Context())
	if c == nil {
		respondError(w, reqID, http.StatusUnauthorized, model.NewUnauthorizedError("no client"))
		return
	}
	c.Lifecycle.Focus(r.Context())
	respondOK(w, reqID, newSessionState(c.Session.State()))
}
