package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func body(n int) string {
	return strings.Repeat("article text ", n/13+1)[:n]
}

func TestExtract_PicksLongestValidSelector(t *testing.T) {
	short := body(250)
	long := body(600)
	html := `
		<html>
			<body>
				<article>` + short + `</article>
				<div class="entry-content">` + long + `</div>
			</body>
		</html>
	`

	result := Extract(html, nil, 200)

	assert.Equal(t, ".entry-content", result.SelectorUsed)
	assert.Equal(t, long, result.Text)
	assert.Equal(t, len(long), result.ScoresBySelector[".entry-content"])
}

func TestExtract_TieBreaksByDeclarationOrder(t *testing.T) {
	text := body(300)
	html := `
		<html>
			<body>
				<div class="post-content">` + text + `</div>
				<div class="entry-content">` + text + `</div>
			</body>
		</html>
	`

	result := Extract(html, nil, 200)

	// Equal lengths: the earlier-declared selector wins.
	assert.Equal(t, ".post-content", result.SelectorUsed)
}

func TestExtract_ShortCandidatesFallBackToBody(t *testing.T) {
	html := `
		<html>
			<body>
				<article>just a teaser</article>
				<p>some surrounding text</p>
			</body>
		</html>
	`

	result := Extract(html, nil, 200)

	assert.Equal(t, "body", result.SelectorUsed)
	assert.Contains(t, result.Text, "just a teaser")
	assert.Contains(t, result.Text, "some surrounding text")
}

func TestExtract_StripsNoiseBeforeScoring(t *testing.T) {
	text := body(400)
	html := `
		<html>
			<body>
				<article>
					<script>var tracking = true;</script>
					<nav><a href="/">Home</a></nav>
					` + text + `
					<div class="comments">Great post! Thanks for sharing!</div>
				</article>
			</body>
		</html>
	`

	result := Extract(html, nil, 200)

	require.Equal(t, "article", result.SelectorUsed)
	assert.NotContains(t, result.Text, "tracking")
	assert.NotContains(t, result.Text, "Great post!")
	assert.NotContains(t, result.Text, "Home")
}

func TestExtract_CustomSelectorsOverrideDefaults(t *testing.T) {
	text := body(250)
	html := `<html><body><div class="my-post">` + text + `</div></body></html>`

	result := Extract(html, []string{".my-post"}, 200)

	assert.Equal(t, ".my-post", result.SelectorUsed)
	assert.Equal(t, text, result.Text)
}

func TestExtract_EmptyDocument(t *testing.T) {
	result := Extract("", nil, 200)

	assert.Equal(t, "body", result.SelectorUsed)
	assert.Empty(t, result.Text)
}

func TestExtract_ScoresEverySelector(t *testing.T) {
	html := `<html><body><main>` + body(300) + `</main></body></html>`

	result := Extract(html, nil, 200)

	require.Len(t, result.ScoresBySelector, len(DefaultSelectors()))
	assert.Zero(t, result.ScoresBySelector[".post-content"])
	assert.Equal(t, 300, result.ScoresBySelector["main"])
}

func TestNormalize_CollapsesWhitespace(t *testing.T) {
	in := "  first   line  \r\n\r\n\n\n  second\tline  \n"
	assert.Equal(t, "first line\n\nsecond line", Normalize(in))
}

func TestNormalize_TrimsLeadingBlankLines(t *testing.T) {
	assert.Equal(t, "text", Normalize("\n\n\ntext\n\n"))
}
