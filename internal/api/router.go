// Package api implements the Blueprint REST API using chi.
package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/blueprint/internal/templateservice"
)

// NewRouter creates a chi router with all template routes mounted.
func NewRouter(svc *templateservice.Service) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Post("/templates", h.CreateTemplate)
	r.Get("/templates", h.ListTemplates)
	r.Get("/templates/{title}", h.GetTemplate)
	r.Put("/templates/{title}", h.UpdateTemplate)
	r.Delete("/templates/{title}", h.DeleteTemplate)

	return r
}
