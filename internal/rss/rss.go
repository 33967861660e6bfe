// Package rss renders a digest as an RSS 2.0 document.
package rss

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"linkdigest/internal/domain"
)

const (
	feedTitle       = "Random Bookmark Digest"
	feedDescription = "A random selection of your saved bookmarks"
	generatorName   = "linkdigest"
)

type rssDoc struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel channel  `xml:"channel"`
}

type channel struct {
	Title         string `xml:"title"`
	Link          string `xml:"link"`
	Description   string `xml:"description"`
	Generator     string `xml:"generator"`
	LastBuildDate string `xml:"lastBuildDate"`
	Items         []item `xml:"item"`
}

type item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        guid   `xml:"guid"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

type guid struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// Render produces the RSS document for a digest. Every date in the
// document is pinned to the digest's generation time, so rendering
// the same digest twice yields byte-identical output.
func Render(digest *domain.Digest, feedURL string) ([]byte, error) {
	generated := digest.GeneratedAt.Format(time.RFC1123Z)

	doc := rssDoc{
		Version: "2.0",
		Channel: channel{
			Title:         feedTitle,
			Link:          feedURL,
			Description:   feedDescription,
			Generator:     generatorName,
			LastBuildDate: generated,
			Items:         buildItems(digest.Bookmarks, generated),
		},
	}

	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rss document: %w", err)
	}

	return append([]byte(xml.Header), body...), nil
}

func buildItems(bookmarks []domain.Bookmark, pubDate string) []item {
	if len(bookmarks) == 0 {
		// Keep the feed valid for readers even before the upstream
		// has any bookmarks to offer.
		return []item{{
			Title:       "No Bookmarks Available",
			Link:        "",
			GUID:        guid{IsPermaLink: false, Value: "no-bookmarks"},
			Description: "No bookmarks found. Check the upstream API configuration.",
			PubDate:     pubDate,
		}}
	}

	items := make([]item, 0, len(bookmarks))
	for _, b := range bookmarks {
		items = append(items, item{
			Title:       b.Title,
			Link:        b.URL,
			GUID:        guid{IsPermaLink: false, Value: b.ID},
			Description: itemDescription(b),
			PubDate:     pubDate,
		})
	}
	return items
}

// itemDescription appends the tag list to the bookmark description
// when tags are present.
func itemDescription(b domain.Bookmark) string {
	if len(b.Tags) == 0 {
		return b.Description
	}
	suffix := "Tags: " + strings.Join(b.Tags, ", ")
	if b.Description == "" {
		return suffix
	}
	return b.Description + "\n\n" + suffix
}
