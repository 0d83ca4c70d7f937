package voice

import (
	"context"
	_ "embed"
	"encoding/json"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/voicereview/internal/llm"
	"github.com/jonathan/voicereview/internal/prompts"
	"github.com/jonathan/voicereview/internal/types"
)

//go:embed style_profile.schema.json
var profileSchema []byte

// Delegated synthesizes a style profile by sending the corpus to the
// external generator and validating the JSON it returns. The generator's
// output is untrusted: it is fence-stripped, the first balanced object is
// pulled out, and the result is checked against the profile schema before
// anything downstream sees it.
type Delegated struct {
	client  llm.Client
	tier    llm.ModelTier
	timeout time.Duration
	policy  llm.RetryPolicy
}

// NewDelegated returns the generator-backed synthesis strategy.
func NewDelegated(client llm.Client) *Delegated {
	return &Delegated{
		client:  client,
		tier:    llm.TierStandard,
		timeout: llm.DefaultInvokeTimeout,
		policy:  llm.DefaultRetryPolicy(),
	}
}

// Synthesize asks the generator for a profile and validates the response.
// Unusable output yields a StyleAnalysisError, which is non-retryable at
// this layer - re-invoking is the caller's call.
func (d *Delegated) Synthesize(ctx context.Context, corpusText string) (*types.StyleProfile, error) {
	if strings.TrimSpace(corpusText) == "" {
		return nil, &EmptyCorpusError{}
	}

	template := prompts.MustGet("voice.json", "extract-style-profile")
	prompt := prompts.Compose(template, map[string]string{
		"CorpusText": corpusText,
	})

	raw, err := llm.Invoke(ctx, func(ctx context.Context) (string, error) {
		return d.client.Generate(ctx, "", prompt, d.tier, 0)
	}, d.timeout, d.policy)
	if err != nil {
		return nil, err
	}

	return ParseProfileResponse(raw)
}

// ParseProfileResponse turns free-form generator output into a validated
// StyleProfile: strip code fences, extract the first balanced {...} span,
// parse, and require the three top-level groups.
func ParseProfileResponse(raw string) (*types.StyleProfile, error) {
	cleaned := llm.CleanJSONBlock(raw)
	span := llm.ExtractJSONObject(cleaned)
	if span == "" {
		return nil, &StyleAnalysisError{
			Message: "response is not valid structured data, retry",
		}
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(profileSchema),
		gojsonschema.NewStringLoader(span),
	)
	if err != nil {
		return nil, &StyleAnalysisError{
			Message: "response is not valid structured data, retry",
			Cause:   err,
		}
	}
	if !result.Valid() {
		var details []string
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return nil, &StyleAnalysisError{
			Message: "profile is missing required groups: " + strings.Join(details, "; "),
		}
	}

	var profile types.StyleProfile
	if err := json.Unmarshal([]byte(span), &profile); err != nil {
		return nil, &StyleAnalysisError{
			Message: "response is not valid structured data, retry",
			Cause:   err,
		}
	}

	// Schema validation guarantees key presence; this guards against
	// explicit nulls.
	if !profile.Complete() {
		return nil, &StyleAnalysisError{
			Message: "profile is missing required groups: " + strings.Join(profile.MissingGroups(), ", "),
		}
	}

	return &profile, nil
}
