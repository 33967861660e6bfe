package handlers

import (
	"context"
	"net/http"

	"linkdigest/internal/httpserver/deps"
	"linkdigest/internal/logger"
	"linkdigest/internal/rss"
)

// Feed serves the cached digest as an RSS 2.0 document. Before the
// first scheduled run there is no cache yet; the handler then fetches
// and samples on demand and populates the cache, so the first request
// is never empty and subsequent reads stay byte-identical.
func Feed(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		digest := d.Cache.Get()

		if digest == nil {
			d.Logger.Info("no feed cache yet, generating initial digest")

			ctx, cancel := context.WithTimeout(r.Context(), d.DispatchTimeout)
			defer cancel()

			bookmarks, err := d.Service.Generate(ctx)
			if err != nil {
				d.Logger.Error("failed to generate initial digest", logger.Error(err))
				writeError(w, http.StatusInternalServerError, "Failed to generate RSS feed")
				return
			}
			digest = d.Cache.Update(bookmarks, d.TimeNow())
		}

		body, err := rss.Render(digest, d.FeedURL)
		if err != nil {
			d.Logger.Error("failed to render rss feed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to generate RSS feed")
			return
		}

		w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			d.Logger.Debug("failed to write feed response", logger.Error(err))
		}
	}
}
