package review

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/voicereview/internal/llm"
	"github.com/jonathan/voicereview/internal/prompts"
	"github.com/jonathan/voicereview/internal/types"
)

// Store is the persistence surface the review service needs.
type Store interface {
	GetDocumentSamples(ctx context.Context, userID uuid.UUID) ([]string, error)
	GetLatestProfile(ctx context.Context, userID uuid.UUID) (*types.StyleProfile, error)
	SaveReview(ctx context.Context, userID uuid.UUID, placeName, text string) (uuid.UUID, error)
}

// maxSamplePromptChars bounds how much reference material goes into the
// system prompt.
const maxSamplePromptChars = 6000

// Service generates and edits reviews through the resilient invocation
// layer, one in-flight generator call per user request.
type Service struct {
	store   Store
	client  llm.Client
	timeout time.Duration
	policy  llm.RetryPolicy
}

// NewService creates a review service with default resilience settings.
func NewService(store Store, client llm.Client) *Service {
	return &Service{
		store:   store,
		client:  client,
		timeout: llm.DefaultInvokeTimeout,
		policy:  llm.DefaultRetryPolicy(),
	}
}

// Generate writes a new review from the visit details, streaming increments
// to onDelta, and persists the finished text. Generation retries only while
// nothing has been emitted yet; once tokens have gone out, a failure is
// surfaced rather than restarted.
func (s *Service) Generate(ctx context.Context, userID uuid.UUID, req *types.GenerationRequest, onDelta func(string)) (string, error) {
	if err := ValidateRequest(req).Err(); err != nil {
		return "", err
	}

	profile, samples, err := s.loadVoice(ctx, userID)
	if err != nil {
		return "", err
	}

	system := prompts.Compose(prompts.MustGet("review.json", "generate-system"), map[string]string{
		"StyleProfile": profileJSON(profile),
		"Samples":      samples,
	})
	user := prompts.Compose(prompts.MustGet("review.json", "generate-user"), map[string]string{
		"PlaceName":  req.PlaceName,
		"Location":   req.Location,
		"VisitDate":  req.VisitDate,
		"Menu":       req.Menu,
		"Companions": req.Companions,
		"Positives":  req.Positives,
		"Negatives":  req.Negatives,
		"FreeText":   req.FreeText,
		"UserDraft":  req.UserDraft,
	})

	text, err := s.stream(ctx, system, user, onDelta)
	if err != nil {
		return "", err
	}

	if _, err := s.store.SaveReview(ctx, userID, req.PlaceName, text); err != nil {
		return text, err
	}
	return text, nil
}

// Edit revises an existing review per the instruction, streaming the revised
// text to onDelta.
func (s *Service) Edit(ctx context.Context, userID uuid.UUID, req *types.EditRequest, onDelta func(string)) (string, error) {
	if err := ValidateRequest(req).Err(); err != nil {
		return "", err
	}

	profile, _, err := s.loadVoice(ctx, userID)
	if err != nil {
		return "", err
	}

	system := prompts.Compose(prompts.MustGet("review.json", "edit-system"), map[string]string{
		"StyleProfile": profileJSON(profile),
	})
	user := prompts.Compose(prompts.MustGet("review.json", "edit-user"), map[string]string{
		"ReviewText":  req.ReviewText,
		"Instruction": req.Instruction,
	})

	return s.stream(ctx, system, user, onDelta)
}

// loadVoice fetches the prerequisite profile and reference samples.
func (s *Service) loadVoice(ctx context.Context, userID uuid.UUID) (*types.StyleProfile, string, error) {
	profile, err := s.store.GetLatestProfile(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if profile == nil {
		return nil, "", &NotFoundError{
			Resource: "style profile",
			Hint:     "run analysis first",
		}
	}

	samples, err := s.store.GetDocumentSamples(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	joined := strings.Join(samples, types.DocumentDelimiter)
	if len(joined) > maxSamplePromptChars {
		joined = joined[:maxSamplePromptChars]
	}
	return profile, joined, nil
}

// stream runs one streaming generator call under the retry wrapper.
func (s *Service) stream(ctx context.Context, system, user string, onDelta func(string)) (string, error) {
	emitted := 0
	policy := s.policy
	base := policy.IsRetryable
	if base == nil {
		base = llm.IsRetryable
	}
	// A mid-stream failure cannot be retried transparently: the client has
	// already seen part of one generation.
	policy.IsRetryable = func(err error) bool {
		return emitted == 0 && base(err)
	}

	return llm.Invoke(ctx, func(ctx context.Context) (string, error) {
		return s.client.GenerateStream(ctx, system, user, llm.TierAdvanced, 0, func(delta string) {
			emitted += len(delta)
			if onDelta != nil {
				onDelta(delta)
			}
		})
	}, s.timeout, policy)
}

func profileJSON(profile *types.StyleProfile) string {
	data, err := json.Marshal(profile)
	if err != nil {
		return ""
	}
	return string(data)
}
