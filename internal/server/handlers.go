package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/jonathan/voicereview/internal/pipeline"
	"github.com/jonathan/voicereview/internal/review"
	"github.com/jonathan/voicereview/internal/server/middleware"
	"github.com/jonathan/voicereview/internal/stream"
	"github.com/jonathan/voicereview/internal/types"
	"github.com/jonathan/voicereview/internal/voice"
)

// analyzeRequest asks for a fresh style analysis of the caller's blog.
type analyzeRequest struct {
	FeedURL    string `json:"feed_url"`
	MaxPosts   int    `json:"max_posts,omitempty"`
	UseBrowser bool   `json:"use_browser,omitempty"`
}

// analyzeResponse summarizes a completed run.
type analyzeResponse struct {
	Links    int                 `json:"links"`
	Sources  int                 `json:"sources"`
	Profile  *types.StyleProfile `json:"profile"`
	Warnings []string            `json:"warnings,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &review.ValidationError{Violations: []review.FieldViolation{
			{Field: "body", Message: "invalid JSON"},
		}})
		return
	}
	if req.FeedURL == "" {
		req.FeedURL = s.cfg.FeedURL
	}
	if req.FeedURL == "" {
		writeError(w, &review.ValidationError{Violations: []review.FieldViolation{
			{Field: "feed_url", Message: "required"},
		}})
		return
	}

	result, err := pipeline.Analyze(r.Context(), userID, pipeline.AnalyzeOptions{
		FeedURL:     req.FeedURL,
		MaxPosts:    req.MaxPosts,
		MinLength:   s.cfg.MinLength,
		UseBrowser:  req.UseBrowser || s.cfg.UseBrowser,
		Verbose:     s.cfg.Verbose,
		Synthesizer: voice.NewDelegated(s.client),
		Store:       s.database,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Links:   len(result.Links),
		Sources: len(result.Corpus.Sources),
		Profile: result.Profile,
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if ok, retryAfter := s.limiter.Allow(userID.String()); !ok {
		seconds := int(retryAfter.Round(time.Second).Seconds())
		if seconds < 1 {
			seconds = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
		writeJSON(w, http.StatusTooManyRequests, errorResponse{
			Error: "generation quota exceeded, slow down",
		})
		return
	}

	var req types.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &review.ValidationError{Violations: []review.FieldViolation{
			{Field: "body", Message: "invalid JSON"},
		}})
		return
	}

	// Validation failures must surface as a plain 400, not a broken
	// event stream, so validate before switching protocols.
	if err := review.ValidateRequest(&req).Err(); err != nil {
		writeError(w, err)
		return
	}

	if s.searcher != nil {
		s.enrichLocation(r, &req)
	}

	emitter, err := stream.NewEmitter(w)
	if err != nil {
		writeError(w, err)
		return
	}

	text, err := s.reviews.Generate(r.Context(), userID, &req, func(delta string) {
		emitter.Token(delta)
	})
	if err != nil {
		// A non-empty text alongside an error means the review streamed
		// fully and only the save failed. The client still gets the text;
		// the lost persistence is a server-side concern.
		if text == "" {
			emitter.Error(err.Error())
			return
		}
		log.Printf("[SERVER] review save failed for %s: %v", userID, err)
	}
	emitter.Done(text)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req types.EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, &review.ValidationError{Violations: []review.FieldViolation{
			{Field: "body", Message: "invalid JSON"},
		}})
		return
	}
	if err := review.ValidateRequest(&req).Err(); err != nil {
		writeError(w, err)
		return
	}

	emitter, err := stream.NewEmitter(w)
	if err != nil {
		writeError(w, err)
		return
	}

	text, err := s.reviews.Edit(r.Context(), userID, &req, func(delta string) {
		emitter.Token(delta)
	})
	if err != nil {
		emitter.Error(err.Error())
		return
	}
	emitter.Done(text)
}

// enrichLocation folds a place lookup result into the free-text facts so
// the generator can mention verifiable details. Lookup failures are not
// fatal; the review generates without enrichment.
func (s *Server) enrichLocation(r *http.Request, req *types.GenerationRequest) {
	results, err := s.searcher.LookupPlace(r.Context(), req.PlaceName, req.Location)
	if err != nil || len(results) == 0 {
		return
	}
	snippet := results[0].Snippet
	if snippet == "" {
		return
	}
	if req.FreeText != "" {
		req.FreeText += "\n"
	}
	req.FreeText += fmt.Sprintf("About this place: %s", snippet)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	profile, err := s.database.GetLatestProfile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if profile == nil {
		writeError(w, &review.NotFoundError{
			Resource: "style profile",
			Hint:     "run analysis first",
		})
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	reviews, err := s.database.ListReviews(r.Context(), userID, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"reviews": reviews})
}
