// Package feed extracts post links from a user's RSS feed.
package feed

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/jonathan/voicereview/internal/fetch"
)

// DefaultMaxPosts bounds how many posts are pulled from a feed.
const DefaultMaxPosts = 20

// ParseError represents a failure to parse feed XML.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("feed parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("feed parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ExtractLinks parses feed XML and returns each item's link in document
// order. Links are trimmed, empties dropped, and the result truncated to
// maxPosts. Duplicate links are kept as-is; feeds are assumed well-formed.
func ExtractLinks(feedXML string, maxPosts int) ([]string, error) {
	if maxPosts <= 0 {
		maxPosts = DefaultMaxPosts
	}

	parsed, err := gofeed.NewParser().ParseString(feedXML)
	if err != nil {
		return nil, &ParseError{
			Message: "failed to parse feed XML",
			Cause:   err,
		}
	}

	links := make([]string, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}
		links = append(links, link)
		if len(links) == maxPosts {
			break
		}
	}

	return links, nil
}

// FetchLinks retrieves the feed document from feedURL and extracts its
// post links.
func FetchLinks(ctx context.Context, feedURL string, maxPosts int) ([]string, error) {
	result, err := fetch.URL(ctx, feedURL, nil)
	if err != nil {
		return nil, err
	}
	return ExtractLinks(result.HTML, maxPosts)
}
