package voice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validProfileJSON = `{
	"writing_style": {
		"formality": "casual",
		"tone": "warm",
		"emotion": "positive",
		"sentence_length": "short",
		"pacing": "energetic",
		"habitual_phrases": ["so today"],
		"emoji_usage": "sparing",
		"style_notes": "short bursts with exclamations"
	},
	"structure_pattern": {
		"opening_style": "opens with a scene-setting statement",
		"frequent_sections": ["verdict"]
	},
	"keyword_profile": {
		"frequent_words": ["ramen", "broth"],
		"topic_bias": "dining"
	}
}`

func TestParseProfileResponse_PlainJSON(t *testing.T) {
	profile, err := ParseProfileResponse(validProfileJSON)
	require.NoError(t, err)
	require.True(t, profile.Complete())
	assert.Equal(t, "casual", profile.WritingStyle.Formality)
	assert.Equal(t, "dining", profile.KeywordProfile.TopicBias)
}

func TestParseProfileResponse_CodeFence(t *testing.T) {
	raw := "```json\n" + validProfileJSON + "\n```"

	profile, err := ParseProfileResponse(raw)
	require.NoError(t, err)
	assert.True(t, profile.Complete())
}

func TestParseProfileResponse_ProseWrappedJSON(t *testing.T) {
	raw := "Sure! Here is the style profile:\n\n" + validProfileJSON + "\n\nHope that helps."

	profile, err := ParseProfileResponse(raw)
	require.NoError(t, err)
	assert.True(t, profile.Complete())
}

func TestParseProfileResponse_NoJSONAtAll(t *testing.T) {
	_, err := ParseProfileResponse("I could not analyze this corpus, sorry.")

	var analysisErr *StyleAnalysisError
	require.ErrorAs(t, err, &analysisErr)
	assert.Contains(t, analysisErr.Message, "not valid structured data")
}

func TestParseProfileResponse_MissingGroup(t *testing.T) {
	raw := `{
		"writing_style": {
			"formality": "casual", "tone": "warm", "emotion": "positive",
			"sentence_length": "short", "pacing": "measured",
			"habitual_phrases": [], "emoji_usage": "none", "style_notes": ""
		},
		"keyword_profile": {"frequent_words": [], "topic_bias": "general"}
	}`

	_, err := ParseProfileResponse(raw)

	var analysisErr *StyleAnalysisError
	require.ErrorAs(t, err, &analysisErr)
	assert.Contains(t, analysisErr.Message, "missing required groups")
}

func TestParseProfileResponse_ExplicitNullGroup(t *testing.T) {
	raw := `{
		"writing_style": null,
		"structure_pattern": {"opening_style": "x", "frequent_sections": []},
		"keyword_profile": {"frequent_words": [], "topic_bias": "general"}
	}`

	_, err := ParseProfileResponse(raw)

	var analysisErr *StyleAnalysisError
	require.ErrorAs(t, err, &analysisErr)
	assert.Contains(t, analysisErr.Message, "missing required groups")
}
