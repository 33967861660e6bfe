package hoarder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"linkdigest/internal/logger"
)

func pageJSON(t *testing.T, ids []string, next string) []byte {
	t.Helper()
	raws := make([]rawBookmark, 0, len(ids))
	for _, id := range ids {
		raws = append(raws, rawBookmark{ID: id, Content: rawContent{URL: "https://example.com/" + id}})
	}
	page := bookmarkPage{Bookmarks: raws}
	if next != "" {
		page.NextCursor = &next
	}
	data, err := json.Marshal(page)
	if err != nil {
		t.Fatalf("marshal page: %v", err)
	}
	return data
}

func TestFetchAllPaginates(t *testing.T) {
	var gotCursors []string
	var gotAuth []string
	pages := map[string][]byte{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/bookmarks" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		cursor := r.URL.Query().Get("cursor")
		gotCursors = append(gotCursors, cursor)
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(pages[cursor])
	}))
	defer srv.Close()

	pages[""] = pageJSON(t, []string{"a", "b"}, "c1")
	pages["c1"] = pageJSON(t, []string{"c"}, "c2")
	pages["c2"] = pageJSON(t, []string{"d"}, "")

	client := New(Options{BaseURL: srv.URL, APIKey: "secret"}, logger.Nop())

	bookmarks, err := client.FetchAll(context.Background(), "")
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	wantIDs := []string{"a", "b", "c", "d"}
	if len(bookmarks) != len(wantIDs) {
		t.Fatalf("got %d bookmarks, want %d", len(bookmarks), len(wantIDs))
	}
	for i, id := range wantIDs {
		if bookmarks[i].ID != id {
			t.Errorf("bookmark %d: got ID %q, want %q", i, bookmarks[i].ID, id)
		}
	}

	wantCursors := []string{"", "c1", "c2"}
	if len(gotCursors) != len(wantCursors) {
		t.Fatalf("got %d requests, want %d", len(gotCursors), len(wantCursors))
	}
	for i, c := range wantCursors {
		if gotCursors[i] != c {
			t.Errorf("request %d: got cursor %q, want %q", i, gotCursors[i], c)
		}
	}
	for i, auth := range gotAuth {
		if auth != "Bearer secret" {
			t.Errorf("request %d: got auth %q", i, auth)
		}
	}
}

func TestFetchAllServerFilter(t *testing.T) {
	var gotArchived string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotArchived = r.URL.Query().Get("archived")
		_, _ = w.Write(pageJSON(t, []string{"a"}, ""))
	}))
	defer srv.Close()

	client := New(Options{BaseURL: srv.URL, OnlyUnarchived: true}, logger.Nop())
	if _, err := client.FetchAll(context.Background(), ""); err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if gotArchived != "false" {
		t.Errorf("got archived=%q, want %q", gotArchived, "false")
	}
}

func TestFetchAllListScopeFiltersClientSide(t *testing.T) {
	raws := []rawBookmark{
		{ID: "a"},
		{ID: "b", Archived: true},
		{ID: "c"},
		{ID: "d", Archived: true},
		{ID: "e"},
	}
	body, err := json.Marshal(raws)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/lists/fav/bookmarks" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Has("archived") {
			t.Error("archived filter must not be sent on list scope")
		}
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	client := New(Options{BaseURL: srv.URL, OnlyUnarchived: true}, logger.Nop())
	bookmarks, err := client.FetchAll(context.Background(), "fav")
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}

	wantIDs := []string{"a", "c", "e"}
	if len(bookmarks) != len(wantIDs) {
		t.Fatalf("got %d bookmarks, want %d", len(bookmarks), len(wantIDs))
	}
	for i, id := range wantIDs {
		if bookmarks[i].ID != id {
			t.Errorf("bookmark %d: got ID %q, want %q", i, bookmarks[i].ID, id)
		}
	}
}

func TestFetchAllUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := New(Options{BaseURL: srv.URL}, logger.Nop())
	if _, err := client.FetchAll(context.Background(), ""); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestFetchList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/lists/fav" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"id":"fav","name":"Favorites"}`))
	}))
	defer srv.Close()

	client := New(Options{BaseURL: srv.URL}, logger.Nop())
	list, err := client.FetchList(context.Background(), "fav")
	if err != nil {
		t.Fatalf("FetchList: %v", err)
	}
	if list.ID != "fav" || list.Name != "Favorites" {
		t.Errorf("got list %+v", list)
	}
}

func TestFetchListNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := New(Options{BaseURL: srv.URL}, logger.Nop())
	if _, err := client.FetchList(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for a missing list")
	}
}

func TestFetchLists(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantNames []string
		wantErr   bool
	}{
		{
			name:      "array",
			payload:   `[{"id":"l1","name":"Favorites"},{"id":"l2","name":"Later"}]`,
			wantNames: []string{"Favorites", "Later"},
		},
		{
			name:      "envelope",
			payload:   `{"lists":[{"id":"l1","name":"Favorites"}]}`,
			wantNames: []string{"Favorites"},
		},
		{
			name:    "garbage",
			payload: `42`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/v1/lists" {
					t.Errorf("unexpected path %s", r.URL.Path)
					http.NotFound(w, r)
					return
				}
				_, _ = w.Write([]byte(tt.payload))
			}))
			defer srv.Close()

			client := New(Options{BaseURL: srv.URL}, logger.Nop())
			lists, err := client.FetchLists(context.Background())
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("FetchLists: %v", err)
			}
			if len(lists) != len(tt.wantNames) {
				t.Fatalf("got %d lists, want %d", len(lists), len(tt.wantNames))
			}
			for i, name := range tt.wantNames {
				if lists[i].Name != name {
					t.Errorf("list %d: got name %q, want %q", i, lists[i].Name, name)
				}
			}
		})
	}
}

func TestDecodeBookmarkPage(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantIDs  []string
		wantNext string
		wantErr  bool
	}{
		{
			name:    "bare array",
			payload: `[{"id":"a"},{"id":"b"}]`,
			wantIDs: []string{"a", "b"},
		},
		{
			name:     "envelope with cursor",
			payload:  `{"bookmarks":[{"id":"a"}],"nextCursor":"c1"}`,
			wantIDs:  []string{"a"},
			wantNext: "c1",
		},
		{
			name:    "envelope null cursor",
			payload: `{"bookmarks":[{"id":"a"}],"nextCursor":null}`,
			wantIDs: []string{"a"},
		},
		{
			name:    "single object",
			payload: `{"id":"solo"}`,
			wantIDs: []string{"solo"},
		},
		{
			name:    "unrecognized shape",
			payload: `{"items":[{"id":"a"}]}`,
			wantErr: true,
		},
		{
			name:    "not json",
			payload: `nope`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raws, next, err := decodeBookmarkPage([]byte(tt.payload))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeBookmarkPage: %v", err)
			}
			if next != tt.wantNext {
				t.Errorf("got next %q, want %q", next, tt.wantNext)
			}
			if len(raws) != len(tt.wantIDs) {
				t.Fatalf("got %d bookmarks, want %d", len(raws), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if raws[i].ID != id {
					t.Errorf("bookmark %d: got ID %q, want %q", i, raws[i].ID, id)
				}
			}
		})
	}
}

func TestDecodeLists(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantLen int
		wantErr bool
	}{
		{name: "array", payload: `[{"id":"l1"},{"id":"l2"}]`, wantLen: 2},
		{name: "envelope", payload: `{"lists":[{"id":"l1"}]}`, wantLen: 1},
		{name: "single", payload: `{"id":"l1","name":"Favorites"}`, wantLen: 1},
		{name: "garbage", payload: `42`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lists, err := decodeLists([]byte(tt.payload))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeLists: %v", err)
			}
			if len(lists) != tt.wantLen {
				t.Errorf("got %d lists, want %d", len(lists), tt.wantLen)
			}
		})
	}
}
