package server

import (
	"net/http"
	"runtime"
	"time"
)

type healthResponse struct {
	Status     string            `json:"status"`
	Version    string            `json:"version"`
	GoVersion  string            `json:"go_version"`
	Uptime     string            `json:"uptime"`
	TokenStore string            `json:"token_store"`
	Clients    int               `json:"clients"`
	Backends   map[string]string `json:"backends"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, healthResponse{
		Status:     "healthy",
		Version:    Version,
		GoVersion:  runtime.Version(),
		Uptime:     time.Since(s.startTime).Round(time.Second).String(),
		TokenStore: s.config.TokenStore,
		Clients:    s.clients.Len(),
		Backends: map[string]string{
			"nestjs": s.config.Backends.NestJSURL,
			"python": s.config.Backends.PythonURL,
		},
	})
}
