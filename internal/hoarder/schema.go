package hoarder

import (
	"encoding/json"
	"fmt"
)

// rawBookmark mirrors an upstream bookmark record before
// normalization. Nullable upstream fields stay zero-valued; JSON null
// is a no-op for these string fields.
type rawBookmark struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Summary    string     `json:"summary"`
	Note       string     `json:"note"`
	Archived   bool       `json:"archived"`
	CreatedAt  string     `json:"createdAt"`
	ModifiedAt string     `json:"modifiedAt"`
	Content    rawContent `json:"content"`
	Tags       []rawTag   `json:"tags"`
}

// rawContent is the nested content payload. Only link-type bookmarks
// carry a URL; note and asset types leave these empty.
type rawContent struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type rawTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type rawList struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"createdAt"`
	ModifiedAt  string `json:"modifiedAt"`
}

// bookmarkPage is the paginated envelope shape. NextCursor is a
// pointer so an absent key can be told apart from an empty cursor.
type bookmarkPage struct {
	Bookmarks  []rawBookmark `json:"bookmarks"`
	NextCursor *string       `json:"nextCursor"`
}

type listEnvelope struct {
	Lists []rawList `json:"lists"`
}

// decodeBookmarkPage decodes one page of the bookmarks listing. The
// upstream has served three shapes over time: a bare array, a
// {bookmarks, nextCursor} envelope, and a single object. Decoders are
// tried in that fixed order; the first that matches wins.
func decodeBookmarkPage(data []byte) ([]rawBookmark, string, error) {
	var arr []rawBookmark
	if err := json.Unmarshal(data, &arr); err == nil {
		return arr, "", nil
	}

	var page bookmarkPage
	if err := json.Unmarshal(data, &page); err == nil && page.Bookmarks != nil {
		next := ""
		if page.NextCursor != nil {
			next = *page.NextCursor
		}
		return page.Bookmarks, next, nil
	}

	var single rawBookmark
	if err := json.Unmarshal(data, &single); err == nil && single.ID != "" {
		return []rawBookmark{single}, "", nil
	}

	return nil, "", fmt.Errorf("unrecognized bookmarks payload shape")
}

// decodeLists decodes the lists endpoint with the same shape
// tolerance as decodeBookmarkPage: array, {lists} envelope, single
// object.
func decodeLists(data []byte) ([]rawList, error) {
	var arr []rawList
	if err := json.Unmarshal(data, &arr); err == nil {
		return arr, nil
	}

	var env listEnvelope
	if err := json.Unmarshal(data, &env); err == nil && env.Lists != nil {
		return env.Lists, nil
	}

	var single rawList
	if err := json.Unmarshal(data, &single); err == nil && single.ID != "" {
		return []rawList{single}, nil
	}

	return nil, fmt.Errorf("unrecognized lists payload shape")
}
