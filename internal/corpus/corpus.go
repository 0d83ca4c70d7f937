// Package corpus fetches a user's posts and merges them into one text
// corpus for voice analysis.
package corpus

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/voicereview/internal/extract"
	"github.com/jonathan/voicereview/internal/fetch"
	"github.com/jonathan/voicereview/internal/types"
)

const (
	// DefaultConcurrency bounds the document fetch fan-out.
	DefaultConcurrency = 4
	// DefaultMaxSamples caps how many documents are retained verbatim.
	DefaultMaxSamples = 5
)

// BuildError represents a corpus construction failure.
type BuildError struct {
	Message string
	Cause   error
}

func (e *BuildError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("corpus build error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("corpus build error: %s", e.Message)
}

func (e *BuildError) Unwrap() error {
	return e.Cause
}

// FetchFunc retrieves raw markup for one document URL.
type FetchFunc func(ctx context.Context, url string) (string, error)

// Options configures corpus construction.
type Options struct {
	Selectors   []string
	MinLength   int
	Concurrency int
	MaxSamples  int
	Fetch       FetchFunc
}

// DefaultOptions returns corpus options backed by the HTTP fetcher and the
// default blog body selectors.
func DefaultOptions() *Options {
	return &Options{
		Selectors:   extract.DefaultSelectors(),
		MinLength:   extract.DefaultMinLength,
		Concurrency: DefaultConcurrency,
		MaxSamples:  DefaultMaxSamples,
		Fetch: func(ctx context.Context, url string) (string, error) {
			result, err := fetch.URL(ctx, url, nil)
			if err != nil {
				return "", err
			}
			return result.HTML, nil
		},
	}
}

// Build fetches every link concurrently (bounded fan-out), extracts each
// document's body, and merges the results in original link order. Individual
// fetch or extraction failures skip that document rather than failing the
// run; Build fails only when no document yields text.
func Build(ctx context.Context, links []string, opts *Options) (*types.Corpus, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Fetch == nil {
		opts.Fetch = DefaultOptions().Fetch
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	if len(links) == 0 {
		return nil, &BuildError{Message: "no links to fetch"}
	}

	// Results are slotted by link index so completion order never affects
	// merged order.
	texts := make([]string, len(links))
	sources := make([]types.Source, len(links))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, link := range links {
		g.Go(func() error {
			markup, err := opts.Fetch(gctx, link)
			if err != nil {
				return nil // skip failed documents
			}
			result := extract.Extract(markup, opts.Selectors, opts.MinLength)
			if result.Text == "" {
				return nil
			}
			texts[i] = result.Text
			sources[i] = types.Source{
				URL:       link,
				Timestamp: time.Now().UTC().Format(time.RFC3339),
				Hash:      computeHash(result.Text),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, &BuildError{Message: "fetch aborted", Cause: err}
	}

	maxSamples := opts.MaxSamples
	if maxSamples <= 0 {
		maxSamples = DefaultMaxSamples
	}

	var parts []string
	var samples []string
	var kept []types.Source
	for i, text := range texts {
		if text == "" {
			continue
		}
		parts = append(parts, text)
		if len(samples) < maxSamples {
			samples = append(samples, text)
		}
		kept = append(kept, sources[i])
	}

	if len(parts) == 0 {
		// Under cancellation every fetch fails, which must not be
		// misreported as an empty feed.
		if err := ctx.Err(); err != nil {
			return nil, &BuildError{Message: "fetch cancelled", Cause: err}
		}
		return nil, &BuildError{Message: "no documents yielded text"}
	}

	return &types.Corpus{
		MergedText: strings.Join(parts, types.DocumentDelimiter),
		Samples:    samples,
		Sources:    kept,
	}, nil
}

func computeHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
