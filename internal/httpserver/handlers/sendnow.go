package handlers

import (
	"context"
	"errors"
	"net/http"

	"linkdigest/internal/digest"
	"linkdigest/internal/httpserver/deps"
	"linkdigest/internal/logger"
)

// SendNow triggers one dispatch run through the same path the
// scheduler uses. The run is synchronous but bounded by the dispatch
// timeout, so a slow upstream cannot hold the request forever.
func SendNow(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), d.DispatchTimeout)
		defer cancel()

		err := d.Service.Run(ctx)
		switch {
		case errors.Is(err, digest.ErrRunInProgress):
			writeError(w, http.StatusConflict, "a dispatch run is already in progress")
		case err != nil:
			d.Logger.Error("manual dispatch failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to send notification")
		default:
			writeJSON(w, http.StatusOK, resultResponse{
				Success: true,
				Message: "Notification sent successfully",
			})
		}
	}
}
