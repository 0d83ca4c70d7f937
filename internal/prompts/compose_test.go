package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompose_SubstitutesFields(t *testing.T) {
	out := Compose("Visited {{.PlaceName}} in {{.Location}}.", map[string]string{
		"PlaceName": "Ramen Alley",
		"Location":  "Osaka",
	})
	assert.Equal(t, "Visited Ramen Alley in Osaka.", out)
}

func TestCompose_EmptyKnownFieldRendersLabel(t *testing.T) {
	out := Compose("Downsides: {{.Negatives}}", map[string]string{
		"Negatives": "",
	})
	assert.Equal(t, "Downsides: "+EmptyFieldLabel, out)

	out = Compose("Downsides: {{.Negatives}}", map[string]string{
		"Negatives": "   \t ",
	})
	assert.Equal(t, "Downsides: "+EmptyFieldLabel, out)
}

func TestCompose_UnknownPlaceholderPassesThrough(t *testing.T) {
	out := Compose("Known: {{.A}}, unknown: {{.Missing}}", map[string]string{
		"A": "yes",
	})
	assert.Equal(t, "Known: yes, unknown: {{.Missing}}", out)
}

func TestCompose_ValueContainingPlaceholderIsNotReexpanded(t *testing.T) {
	// Single left-to-right pass: substituted text is never re-scanned.
	out := Compose("{{.A}} {{.B}}", map[string]string{
		"A": "{{.B}}",
		"B": "bee",
	})
	assert.Equal(t, "{{.B}} bee", out)
}

func TestCompose_UnterminatedPlaceholder(t *testing.T) {
	out := Compose("broken {{.Tail", map[string]string{"Tail": "x"})
	assert.Equal(t, "broken {{.Tail", out)
}

func TestCompose_Deterministic(t *testing.T) {
	fields := map[string]string{"X": "one", "Y": ""}
	first := Compose("{{.X}}/{{.Y}}/{{.Z}}", fields)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Compose("{{.X}}/{{.Y}}/{{.Z}}", fields))
	}
}

func TestGet_LoadsEmbeddedPrompts(t *testing.T) {
	ClearCache()

	tmpl, err := Get("review.json", "generate-user")
	assert.NoError(t, err)
	assert.Contains(t, tmpl, "{{.PlaceName}}")

	_, err = Get("review.json", "no-such-key")
	assert.Error(t, err)

	_, err = Get("missing.json", "generate-user")
	assert.Error(t, err)
}
