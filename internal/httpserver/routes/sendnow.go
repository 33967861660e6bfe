package routes

import (
	"github.com/go-chi/chi/v5"

	"linkdigest/internal/httpserver/deps"
	"linkdigest/internal/httpserver/handlers"
)

func init() { Register(registerSendNow) }

func registerSendNow(r chi.Router, d deps.Deps) {
	r.Post("/send-now", handlers.SendNow(d))
}
