package server

import "net/http"

type endpointInfo struct {
	Path        string   `json:"path"`
	Methods     []string `json:"methods"`
	Description string   `json:"description"`
}

type discoveryResponse struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Description string         `json:"description"`
	Endpoints   []endpointInfo `json:"endpoints"`
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, discoveryResponse{
		Name:        "Jarvis Console",
		Version:     Version,
		Description: "Jarvis document management console",
		Endpoints: []endpointInfo{
			{"/healthz", []string{"GET"}, "Server health and version"},
			{"/session/state", []string{"GET"}, "Authentication state of the calling browser"},
			{"/session/focus", []string{"POST"}, "Re-validate the session when the page regains focus"},
		},
	})
}
