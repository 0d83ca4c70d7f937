package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/voicereview/internal/types"
	"github.com/jonathan/voicereview/internal/voice"
)

type recordingStore struct {
	mergedText string
	samples    []string
	profile    *types.StyleProfile
}

func (s *recordingStore) AppendDocuments(ctx context.Context, userID uuid.UUID, text string, samples []string) error {
	s.mergedText = text
	s.samples = samples
	return nil
}

func (s *recordingStore) SaveProfile(ctx context.Context, userID uuid.UUID, profile *types.StyleProfile) (uuid.UUID, error) {
	s.profile = profile
	return uuid.New(), nil
}

type flakySynthesizer struct {
	failures int
	calls    int
}

func (f *flakySynthesizer) Synthesize(ctx context.Context, corpusText string) (*types.StyleProfile, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, &voice.StyleAnalysisError{Message: "response is not valid structured data, retry"}
	}
	return voice.NewHeuristic().Synthesize(ctx, corpusText)
}

// blogServer serves an RSS feed plus the post pages it links to.
func blogServer(t *testing.T, posts int) *httptest.Server {
	var srv *httptest.Server
	mux := http.NewServeMux()

	mux.HandleFunc("/feed.xml", func(w http.ResponseWriter, r *http.Request) {
		var b strings.Builder
		b.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel><title>Blog</title>`)
		for i := 0; i < posts; i++ {
			fmt.Fprintf(&b, "<item><title>Post %d</title><link>%s/posts/%d</link></item>", i, srv.URL, i)
		}
		b.WriteString("</channel></rss>")
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, b.String())
	})

	mux.HandleFunc("/posts/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/posts/")
		body := strings.Repeat(fmt.Sprintf("Post %s was a lovely lunch at the cafe downtown. ", id), 10)
		fmt.Fprintf(w, "<html><body><article>%s</article><footer>copyright</footer></body></html>", body)
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestAnalyze_EndToEnd(t *testing.T) {
	srv := blogServer(t, 3)
	store := &recordingStore{}

	result, err := Analyze(context.Background(), uuid.New(), AnalyzeOptions{
		FeedURL:     srv.URL + "/feed.xml",
		MinLength:   100,
		Synthesizer: voice.NewHeuristic(),
		Store:       store,
	})

	require.NoError(t, err)
	assert.Len(t, result.Links, 3)
	require.NotNil(t, result.Profile)
	assert.True(t, result.Profile.Complete())

	// Documents merge in feed order and persist alongside the profile.
	docs := strings.Split(result.Corpus.MergedText, types.DocumentDelimiter)
	require.Len(t, docs, 3)
	assert.Contains(t, docs[0], "Post 0")
	assert.Contains(t, docs[2], "Post 2")
	assert.Equal(t, result.Corpus.MergedText, store.mergedText)
	assert.Equal(t, result.Profile, store.profile)
	assert.NotContains(t, result.Corpus.MergedText, "copyright")
}

func TestAnalyze_RespectsMaxPosts(t *testing.T) {
	srv := blogServer(t, 6)

	result, err := Analyze(context.Background(), uuid.New(), AnalyzeOptions{
		FeedURL:     srv.URL + "/feed.xml",
		MaxPosts:    2,
		MinLength:   100,
		Synthesizer: voice.NewHeuristic(),
	})

	require.NoError(t, err)
	assert.Len(t, result.Links, 2)
}

func TestAnalyze_ReinvokesOnceOnUnusableSynthesis(t *testing.T) {
	srv := blogServer(t, 2)
	synth := &flakySynthesizer{failures: 1}

	result, err := Analyze(context.Background(), uuid.New(), AnalyzeOptions{
		FeedURL:     srv.URL + "/feed.xml",
		MinLength:   100,
		Synthesizer: synth,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, synth.calls)
	assert.True(t, result.Profile.Complete())
}

func TestAnalyze_SecondFailureSurfaces(t *testing.T) {
	srv := blogServer(t, 2)
	synth := &flakySynthesizer{failures: 2}

	_, err := Analyze(context.Background(), uuid.New(), AnalyzeOptions{
		FeedURL:     srv.URL + "/feed.xml",
		MinLength:   100,
		Synthesizer: synth,
	})

	var analysisErr *voice.StyleAnalysisError
	require.ErrorAs(t, err, &analysisErr)
	assert.Equal(t, 2, synth.calls)
}

func TestAnalyze_BadFeedURL(t *testing.T) {
	srv := blogServer(t, 0)

	_, err := Analyze(context.Background(), uuid.New(), AnalyzeOptions{
		FeedURL:     srv.URL + "/missing.xml",
		Synthesizer: voice.NewHeuristic(),
	})
	assert.Error(t, err)
}
