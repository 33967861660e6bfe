package hoarder

import "linkdigest/internal/domain"

// untitledFallback is used when neither the content payload nor the
// top-level record carries a title.
const untitledFallback = "Untitled Bookmark"

// mapBookmark normalizes a raw upstream record into the canonical
// domain shape. Empty strings count as absent, so the fallback chains
// skip them exactly like the upstream web UI does.
func mapBookmark(raw rawBookmark) domain.Bookmark {
	title := firstNonEmpty(raw.Content.Title, raw.Title, untitledFallback)
	description := firstNonEmpty(raw.Content.Description, raw.Summary, raw.Note)

	var tags []string
	for _, tag := range raw.Tags {
		tags = append(tags, tag.Name)
	}

	return domain.Bookmark{
		ID:          raw.ID,
		URL:         raw.Content.URL,
		Title:       title,
		Description: description,
		Tags:        tags,
		CreatedAt:   raw.CreatedAt,
		UpdatedAt:   raw.ModifiedAt,
	}
}

func mapList(raw rawList) domain.List {
	return domain.List{
		ID:          raw.ID,
		Name:        raw.Name,
		Description: raw.Description,
		CreatedAt:   raw.CreatedAt,
		UpdatedAt:   raw.ModifiedAt,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
