package routes

import (
	"github.com/go-chi/chi/v5"

	"linkdigest/internal/httpserver/deps"
	"linkdigest/internal/httpserver/handlers"
)

func init() { Register(registerStatus) }

func registerStatus(r chi.Router, d deps.Deps) {
	r.Get("/", handlers.Status(d))
}
