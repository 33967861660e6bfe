package handlers

import (
	"net/http"
	"time"

	"linkdigest/internal/channel"
	"linkdigest/internal/httpserver/deps"
)

type statusResponse struct {
	Status             string  `json:"status"`
	NotificationMethod string  `json:"notification_method"`
	Frequency          string  `json:"frequency"`
	Count              int     `json:"count"`
	Timezone           string  `json:"timezone"`
	TimeToSend         string  `json:"time_to_send"`
	SpecificList       bool    `json:"specific_list"`
	RSSFeedURL         *string `json:"rss_feed_url"`
	UptimeSeconds      float64 `json:"uptime_seconds"`
	Version            string  `json:"version,omitempty"`
}

// Status reports the active configuration. The feed URL is only
// exposed when the feed channel is the configured method.
func Status(d deps.Deps) http.HandlerFunc {
	start := d.StartTime
	return func(w http.ResponseWriter, r *http.Request) {
		var feedURL *string
		if d.Method == channel.MethodFeed {
			feedURL = &d.FeedURL
		}

		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, statusResponse{
			Status:             "ok",
			NotificationMethod: string(d.Method),
			Frequency:          d.Frequency,
			Count:              d.Count,
			Timezone:           d.Timezone,
			TimeToSend:         d.TimeToSend,
			SpecificList:       d.ListScoped,
			RSSFeedURL:         feedURL,
			UptimeSeconds:      time.Since(start).Seconds(),
			Version:            d.Version,
		})
	}
}
