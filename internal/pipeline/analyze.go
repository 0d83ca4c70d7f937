// Package pipeline orchestrates the ingestion-and-analysis run: feed links,
// document fetch, body extraction, corpus aggregation, profile synthesis,
// and persistence.
package pipeline

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/voicereview/internal/corpus"
	"github.com/jonathan/voicereview/internal/extract"
	"github.com/jonathan/voicereview/internal/feed"
	"github.com/jonathan/voicereview/internal/fetch"
	"github.com/jonathan/voicereview/internal/types"
	"github.com/jonathan/voicereview/internal/voice"
)

// Store is the persistence surface the analysis run needs.
type Store interface {
	AppendDocuments(ctx context.Context, userID uuid.UUID, text string, samples []string) error
	SaveProfile(ctx context.Context, userID uuid.UUID, profile *types.StyleProfile) (uuid.UUID, error)
}

// AnalyzeOptions configures one analysis run.
type AnalyzeOptions struct {
	FeedURL     string
	MaxPosts    int
	MinLength   int
	UseBrowser  bool
	Verbose     bool
	Synthesizer voice.Synthesizer
	Store       Store
}

// AnalyzeResult reports what the run produced.
type AnalyzeResult struct {
	Links   []string
	Corpus  *types.Corpus
	Profile *types.StyleProfile
}

// Analyze ingests the user's feed and derives a fresh style profile.
// A StyleAnalysisError from a delegated synthesizer is re-invoked once:
// the generator's output is non-deterministic and a second attempt often
// parses cleanly.
func Analyze(ctx context.Context, userID uuid.UUID, opts AnalyzeOptions) (*AnalyzeResult, error) {
	links, err := feed.FetchLinks(ctx, opts.FeedURL, opts.MaxPosts)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		log.Printf("[ANALYZE] feed yielded %d post links", len(links))
	}

	corpusOpts := corpus.DefaultOptions()
	if opts.MinLength > 0 {
		corpusOpts.MinLength = opts.MinLength
	}
	if opts.UseBrowser {
		corpusOpts.Fetch = browserFallbackFetch(opts.Verbose)
	}

	built, err := corpus.Build(ctx, links, corpusOpts)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		log.Printf("[ANALYZE] corpus built: %d chars, %d samples", len(built.MergedText), len(built.Samples))
	}

	profile, err := opts.Synthesizer.Synthesize(ctx, built.MergedText)
	var analysisErr *voice.StyleAnalysisError
	if errors.As(err, &analysisErr) {
		if opts.Verbose {
			log.Printf("[ANALYZE] unusable synthesis output, re-invoking once: %v", err)
		}
		profile, err = opts.Synthesizer.Synthesize(ctx, built.MergedText)
	}
	if err != nil {
		return nil, err
	}

	if opts.Store != nil {
		if err := opts.Store.AppendDocuments(ctx, userID, built.MergedText, built.Samples); err != nil {
			return nil, err
		}
		if _, err := opts.Store.SaveProfile(ctx, userID, profile); err != nil {
			return nil, err
		}
	}

	return &AnalyzeResult{
		Links:   links,
		Corpus:  built,
		Profile: profile,
	}, nil
}

// browserFallbackFetch retries short, likely script-rendered documents in a
// headless browser.
func browserFallbackFetch(verbose bool) corpus.FetchFunc {
	return func(ctx context.Context, url string) (string, error) {
		result, err := fetch.URL(ctx, url, nil)
		if err != nil {
			return "", err
		}
		quick := extract.Extract(result.HTML, nil, 0)
		if !fetch.ShouldUseBrowser(quick.Text) {
			return result.HTML, nil
		}
		return fetch.WithBrowser(ctx, url, 60*time.Second, verbose)
	}
}
