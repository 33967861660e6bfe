package routes

import (
	"github.com/go-chi/chi/v5"

	"linkdigest/internal/httpserver/deps"
	"linkdigest/internal/httpserver/handlers"
)

func init() { Register(registerFeed) }

func registerFeed(r chi.Router, d deps.Deps) {
	r.Get("/rss/feed", handlers.Feed(d))
}
