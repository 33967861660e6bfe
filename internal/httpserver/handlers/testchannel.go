package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"linkdigest/internal/channel"
	"linkdigest/internal/domain"
	"linkdigest/internal/httpserver/deps"
	"linkdigest/internal/logger"
)

// TestChannel sends one synthetic bookmark through the active channel
// so operators can verify credentials. Calls for a channel that is not
// the configured one are rejected.
func TestChannel(d deps.Deps, method channel.Method) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Method != method {
			writeError(w, http.StatusBadRequest,
				fmt.Sprintf("%s is not configured as the notification method", method))
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), d.DispatchTimeout)
		defer cancel()

		bookmark := testBookmark(method, d.TimeNow())
		if err := d.Channel.Deliver(ctx, []domain.Bookmark{bookmark}); err != nil {
			d.Logger.Error("test delivery failed",
				logger.String("channel", string(method)),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError,
				fmt.Sprintf("Failed to send test message: %v", err))
			return
		}

		writeJSON(w, http.StatusOK, resultResponse{
			Success: true,
			Message: fmt.Sprintf("Test message sent via %s", method),
		})
	}
}

func testBookmark(method channel.Method, now time.Time) domain.Bookmark {
	timestamp := now.Format(time.RFC3339)
	return domain.Bookmark{
		ID:          "test-id",
		URL:         "https://example.com",
		Title:       "Test Bookmark",
		Description: fmt.Sprintf("This is a test bookmark to verify %s integration", method),
		Tags:        []string{"test", string(method)},
		CreatedAt:   timestamp,
		UpdatedAt:   timestamp,
	}
}
