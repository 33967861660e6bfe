package hoarder

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"linkdigest/internal/domain"
	"linkdigest/internal/logger"
)

// DefaultPageSize is the page size requested from the upstream
// bookmarks listing.
const DefaultPageSize = 100

// Options configures a Client.
type Options struct {
	// BaseURL is the upstream server root (without /api/v1).
	BaseURL string
	// APIKey is sent as a bearer token.
	APIKey string
	// OnlyUnarchived excludes archived bookmarks from fetch results.
	OnlyUnarchived bool
	// HTTPClient overrides the transport. Nil uses a default client
	// without a timeout; cancellation comes from the request context.
	HTTPClient *http.Client
	// PageSize overrides DefaultPageSize when positive.
	PageSize int
}

// Client fetches bookmarks and lists from a Hoarder-compatible API.
type Client struct {
	baseURL        string
	apiKey         string
	onlyUnarchived bool
	pageSize       int
	http           *http.Client
	logger         logger.Logger
}

// New creates an upstream API client.
func New(opts Options, log logger.Logger) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/") + "/api/v1",
		apiKey:         opts.APIKey,
		onlyUnarchived: opts.OnlyUnarchived,
		pageSize:       pageSize,
		http:           httpClient,
		logger:         log,
	}
}

// FetchAll returns every bookmark, paginating over the upstream
// cursor until exhausted. When listID is non-empty only bookmarks in
// that list are fetched; archived bookmarks are then filtered out
// client-side because the list endpoint has no archived query.
func (c *Client) FetchAll(ctx context.Context, listID string) ([]domain.Bookmark, error) {
	path := "/bookmarks"
	serverFilter := c.onlyUnarchived
	if listID != "" {
		path = "/lists/" + url.PathEscape(listID) + "/bookmarks"
		serverFilter = false
	}

	var raws []rawBookmark
	cursor := ""
	for {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(c.pageSize))
		if cursor != "" {
			query.Set("cursor", cursor)
		}
		if serverFilter {
			query.Set("archived", "false")
		}

		data, err := c.get(ctx, path, query)
		if err != nil {
			return nil, err
		}

		page, next, err := decodeBookmarkPage(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode bookmarks page: %w", err)
		}

		raws = append(raws, page...)
		if next == "" {
			break
		}
		cursor = next
	}

	if listID != "" && c.onlyUnarchived {
		unarchived := raws[:0]
		for _, raw := range raws {
			if !raw.Archived {
				unarchived = append(unarchived, raw)
			}
		}
		raws = unarchived
	}

	bookmarks := make([]domain.Bookmark, 0, len(raws))
	for _, raw := range raws {
		bookmarks = append(bookmarks, mapBookmark(raw))
	}

	c.logger.Info("fetched bookmarks from upstream",
		logger.Int("count", len(bookmarks)),
		logger.Bool("list_scoped", listID != ""))

	return bookmarks, nil
}

// FetchList returns a single list by ID.
func (c *Client) FetchList(ctx context.Context, listID string) (domain.List, error) {
	data, err := c.get(ctx, "/lists/"+url.PathEscape(listID), nil)
	if err != nil {
		return domain.List{}, err
	}

	lists, err := decodeLists(data)
	if err != nil {
		return domain.List{}, fmt.Errorf("failed to decode list: %w", err)
	}
	if len(lists) == 0 {
		return domain.List{}, fmt.Errorf("list not found: %s", listID)
	}

	return mapList(lists[0]), nil
}

// FetchLists returns every list known to the upstream.
func (c *Client) FetchLists(ctx context.Context) ([]domain.List, error) {
	data, err := c.get(ctx, "/lists", nil)
	if err != nil {
		return nil, err
	}

	raws, err := decodeLists(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode lists: %w", err)
	}

	lists := make([]domain.List, 0, len(raws))
	for _, raw := range raws {
		lists = append(lists, mapList(raw))
	}
	return lists, nil
}

// get issues one authenticated GET and returns the raw body.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream returned status %d for %s", resp.StatusCode, path)
	}

	c.logger.Debug("upstream request",
		logger.String("path", path),
		logger.Int("status", resp.StatusCode),
		logger.Duration("duration", time.Since(start)))

	return body, nil
}
