// Package search looks up place details used to enrich review prompts.
// Lookups go through an injected TTL cache keyed by normalized query so
// repeated requests for the same place skip the external service.
package search

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/jonathan/voicereview/internal/cache"
)

// Result is one place lookup hit.
type Result struct {
	Title   string
	Link    string
	Snippet string
}

// Client performs cached place lookups against Google Custom Search.
type Client struct {
	svc   *customsearch.Service
	cx    string
	cache *cache.TTL[[]Result]
}

// NewClient creates a place search client. A nil results cache gets the
// default 24h TTL.
func NewClient(ctx context.Context, apiKey, cx string, results *cache.TTL[[]Result]) (*Client, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	if results == nil {
		results = cache.New[[]Result](cache.DefaultTTL)
	}
	return &Client{
		svc:   svc,
		cx:    cx,
		cache: results,
	}, nil
}

// LookupPlace searches for a place by name and location.
func (c *Client) LookupPlace(ctx context.Context, placeName, location string) ([]Result, error) {
	query := NormalizeQuery(placeName + " " + location)
	if cached, ok := c.cache.Get(query); ok {
		return cached, nil
	}

	resp, err := c.svc.Cse.List().Context(ctx).Cx(c.cx).Q(query).Num(3).Do()
	if err != nil {
		return nil, fmt.Errorf("place search failed: %w", err)
	}

	results := make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, Result{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}

	c.cache.Set(query, results)
	return results, nil
}

// NormalizeQuery lowercases and collapses whitespace so equivalent queries
// share a cache key.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.Join(strings.Fields(q), " "))
}
