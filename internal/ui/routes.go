package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/me/jarvis/pkg/model"
)

// RegisterRoutes registers all UI routes on the given router.
func (ui *UI) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(ui.WithClient)

		// Public routes (no auth required).
		r.Get("/login", ui.HandleLogin)
		r.Post("/login", ui.HandleLoginPost)
		r.Get("/register", ui.HandleRegister)
		r.Post("/register", ui.HandleRegisterPost)
		r.Get("/logout", ui.HandleLogout)
		r.Post("/logout", ui.HandleLogout)

		// Protected routes (auth required).
		r.Group(func(r chi.Router) {
			r.Use(ui.Protect(""))

			r.Get("/", ui.HandleDashboard)

			// Documents
			r.Route("/documents", func(r chi.Router) {
				r.Get("/", ui.HandleDocumentList)
				r.Post("/", ui.HandleDocumentUpload)
				r.Route("/{id}", func(r chi.Router) {
					r.Post("/update", ui.HandleDocumentUpdate)
					r.Post("/delete", ui.HandleDocumentDelete)
				})
			})

			// Ingestion
			r.Route("/ingestion", func(r chi.Router) {
				r.Get("/", ui.HandleIngestionList)
				r.Post("/", ui.HandleIngestionTrigger)
				r.Post("/{id}/cancel", ui.HandleIngestionCancel)
			})

			// Q&A
			r.Route("/qa", func(r chi.Router) {
				r.Get("/", ui.HandleQA)
				r.Post("/ask", ui.HandleQAAsk)
				r.Post("/select", ui.HandleQASelect)
			})

			// Users (admin role required).
			r.Route("/users", func(r chi.Router) {
				r.Use(ui.Protect(model.RoleAdmin))
				r.Get("/", ui.HandleUserList)
				r.Post("/", ui.HandleUserCreate)
				r.Route("/{id}", func(r chi.Router) {
					r.Post("/update", ui.HandleUserUpdate)
					r.Post("/delete", ui.HandleUserDelete)
				})
			})
		})
	})

	r.NotFound(ui.LookupClient(http.HandlerFunc(ui.HandleNotFound)).ServeHTTP)
}
