package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"linkdigest/internal/channel"
	"linkdigest/internal/digest"
	"linkdigest/internal/feedcache"
	"linkdigest/internal/hoarder"
	"linkdigest/internal/httpserver/deps"
	"linkdigest/internal/httpserver/routes"
	"linkdigest/internal/logger"
	"linkdigest/internal/sampler"
)

// upstreamBookmarks serves a Hoarder-style paginated bookmarks API
// with the given number of bookmarks, two pages.
func upstreamBookmarks(t *testing.T, total int) *httptest.Server {
	t.Helper()

	type page struct {
		Bookmarks  []map[string]any `json:"bookmarks"`
		NextCursor *string          `json:"nextCursor"`
	}

	bookmark := func(i int) map[string]any {
		return map[string]any{
			"id":    fmt.Sprintf("bm-%d", i),
			"title": fmt.Sprintf("Bookmark %d", i),
			"content": map[string]any{
				"url": fmt.Sprintf("https://example.com/%d", i),
			},
		}
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		split := total / 2
		var p page
		if r.URL.Query().Get("cursor") == "" {
			for i := 0; i < split; i++ {
				p.Bookmarks = append(p.Bookmarks, bookmark(i))
			}
			next := "page2"
			p.NextCursor = &next
		} else {
			for i := split; i < total; i++ {
				p.Bookmarks = append(p.Bookmarks, bookmark(i))
			}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(p)
	}))
}

func buildApp(t *testing.T, upstreamURL string, count int) (*digest.Service, *chi.Mux) {
	t.Helper()

	cache := feedcache.New()
	ch := channel.NewFeed(cache, logger.Nop())

	source := hoarder.New(hoarder.Options{
		BaseURL:        upstreamURL,
		APIKey:         "test-key",
		OnlyUnarchived: true,
	}, logger.Nop())

	service := digest.New(digest.Options{
		Source:  source,
		Sampler: sampler.New(),
		Channel: ch,
		Count:   count,
	}, logger.Nop())

	d := deps.Deps{
		Logger:          logger.Nop(),
		StartTime:       time.Now(),
		Version:         "test",
		TimeNow:         time.Now,
		Method:          channel.MethodFeed,
		Frequency:       "daily",
		Count:           count,
		Timezone:        "UTC",
		TimeToSend:      "09:00",
		FeedURL:         "http://localhost:8080/rss/feed",
		Service:         service,
		Channel:         ch,
		Cache:           cache,
		DispatchTimeout: 10 * time.Second,
	}

	r := chi.NewRouter()
	routes.RegisterAll(r, d)

	return service, r
}

func TestDispatchThenFeed(t *testing.T) {
	upstream := upstreamBookmarks(t, 12)
	defer upstream.Close()

	service, router := buildApp(t, upstream.URL, 3)

	if err := service.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rss/feed", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", rec.Code, rec.Body.String())
	}
	if got := strings.Count(rec.Body.String(), "<item>"); got != 3 {
		t.Errorf("got %d feed items, want 3", got)
	}

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/rss/feed", nil))
	if !bytes.Equal(rec.Body.Bytes(), second.Body.Bytes()) {
		t.Error("feed reads between runs must be byte-identical")
	}
}

func TestDispatchFewerBookmarksThanRequested(t *testing.T) {
	upstream := upstreamBookmarks(t, 2)
	defer upstream.Close()

	service, router := buildApp(t, upstream.URL, 5)

	if err := service.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rss/feed", nil))

	if got := strings.Count(rec.Body.String(), "<item>"); got != 2 {
		t.Errorf("got %d feed items, want all 2 available", got)
	}
}

func TestSendNowEndpoint(t *testing.T) {
	upstream := upstreamBookmarks(t, 8)
	defer upstream.Close()

	_, router := buildApp(t, upstream.URL, 3)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/send-now", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", rec.Code, rec.Body.String())
	}

	body, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var resp struct {
		Success bool `json:"success"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Success {
		t.Error("expected success")
	}

	// The run populated the feed cache through the same flow as the
	// scheduler.
	feed := httptest.NewRecorder()
	router.ServeHTTP(feed, httptest.NewRequest(http.MethodGet, "/rss/feed", nil))
	if got := strings.Count(feed.Body.String(), "<item>"); got != 3 {
		t.Errorf("got %d feed items, want 3", got)
	}
}

func TestStatusEndpoint(t *testing.T) {
	upstream := upstreamBookmarks(t, 4)
	defer upstream.Close()

	_, router := buildApp(t, upstream.URL, 2)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}

	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got["status"] != "ok" {
		t.Errorf("got status %v", got["status"])
	}
	if got["notification_method"] != "rss" {
		t.Errorf("got method %v", got["notification_method"])
	}
	if got["rss_feed_url"] == nil {
		t.Error("feed URL must be exposed for the rss method")
	}
}
