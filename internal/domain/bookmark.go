package domain

import "time"

// Bookmark is the canonical shape of an upstream bookmark after
// normalization. Upstream records are heterogeneous (link bookmarks
// carry their URL and title inside a content payload, plain notes do
// not); the hoarder package flattens all of them into this struct.
type Bookmark struct {
	// ID is the upstream identifier. It is the only identity a
	// bookmark has.
	ID string `json:"id"`

	// URL of the saved page. Empty for note-only bookmarks.
	URL string `json:"url"`

	// Title falls back through several upstream fields and is never
	// empty ("Untitled Bookmark" when nothing is set).
	Title string `json:"title"`

	// Description may be empty.
	Description string `json:"description"`

	// Tags are flattened tag names in upstream order.
	Tags []string `json:"tags"`

	// CreatedAt and UpdatedAt are upstream timestamp strings copied
	// verbatim. UpdatedAt is empty when upstream reports no
	// modification time.
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// List is a named server-side grouping of bookmarks, used only as an
// optional fetch scope.
type List struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// Digest is one generated sample of bookmarks. It backs the RSS feed
// cache and is what gets persisted between restarts. A digest is
// always replaced wholesale, never mutated in place.
type Digest struct {
	Bookmarks   []Bookmark `json:"bookmarks"`
	GeneratedAt time.Time  `json:"generated_at"`
}
