package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock_JSONFence(t *testing.T) {
	in := "```json\n{\"a\": 1}\n```"
	assert.Equal(t, `{"a": 1}`, CleanJSONBlock(in))
}

func TestCleanJSONBlock_GenericFence(t *testing.T) {
	in := "```\n{\"a\": 1}\n```"
	assert.Equal(t, `{"a": 1}`, CleanJSONBlock(in))
}

func TestCleanJSONBlock_NoFence(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, CleanJSONBlock(`{"a": 1}`))
}

func TestExtractJSONObject_SurroundingProse(t *testing.T) {
	in := `Here is the profile you asked for:

{"writing_style": {"tone": "warm"}}

Let me know if you need changes.`
	assert.Equal(t, `{"writing_style": {"tone": "warm"}}`, ExtractJSONObject(in))
}

func TestExtractJSONObject_BracesInsideStrings(t *testing.T) {
	in := `{"phrase": "use } carefully", "n": 1}`
	assert.Equal(t, in, ExtractJSONObject(in))
}

func TestExtractJSONObject_Unbalanced(t *testing.T) {
	assert.Empty(t, ExtractJSONObject(`{"open": true`))
	assert.Empty(t, ExtractJSONObject("no object here"))
}
