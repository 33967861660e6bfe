package routes

import (
	"github.com/go-chi/chi/v5"

	"linkdigest/internal/channel"
	"linkdigest/internal/httpserver/deps"
	"linkdigest/internal/httpserver/handlers"
)

func init() { Register(registerTestChannels) }

func registerTestChannels(r chi.Router, d deps.Deps) {
	r.Get("/test-email", handlers.TestChannel(d, channel.MethodEmail))
	r.Get("/test-discord", handlers.TestChannel(d, channel.MethodDiscord))
	r.Get("/test-telegram", handlers.TestChannel(d, channel.MethodTelegram))
}
