// Package extract selects the true article body out of noisy blog markup
// using a scored multi-selector heuristic.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultMinLength is the minimum normalized text length for a selector
// result to count as a full post body. Shorter matches are assumed to be
// teaser or metadata fragments.
const DefaultMinLength = 200

// Result is the outcome of extracting one document.
type Result struct {
	Text             string
	SelectorUsed     string
	ScoresBySelector map[string]int
}

// noiseSelectors are regions removed from the document before any text
// measurement: scripts, styles, embedded widgets, comment sections, ads.
var noiseSelectors = []string{
	"script",
	"style",
	"noscript",
	"iframe",
	"nav",
	"header",
	"footer",
	".comments",
	"#comments",
	".comment-section",
	".ad",
	".ads",
	".advertisement",
	".sidebar",
	".widget",
	".share-buttons",
	".related-posts",
}

// DefaultSelectors returns the ranked candidate selectors for blog post bodies.
// Order matters: earlier selectors win length ties.
func DefaultSelectors() []string {
	return []string{
		".post-content",
		".entry-content",
		".article-body",
		"article",
		"main",
		"#content",
		".content",
	}
}

// Extract picks the best body text from markup. Noise regions are stripped
// once, then every candidate selector is scored by normalized text length.
// A candidate is valid when its length is at least minLength; the longest
// valid candidate wins, with ties broken by declaration order. When no
// candidate is valid the normalized whole-body text is returned.
//
// Extract is a pure function of its inputs: no network, no state. It never
// fails past the fallback - an unparsable or empty document yields an empty
// Text with the fallback path recorded.
func Extract(markup string, selectors []string, minLength int) Result {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	if len(selectors) == 0 {
		selectors = DefaultSelectors()
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		// goquery's html parser is lenient; this path is nearly unreachable,
		// but the contract degrades rather than fails.
		return Result{Text: "", SelectorUsed: "body"}
	}

	doc.Find(strings.Join(noiseSelectors, ", ")).Remove()

	scores := make(map[string]int, len(selectors))
	texts := make(map[string]string, len(selectors))
	for _, selector := range selectors {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			scores[selector] = 0
			continue
		}
		text := Normalize(sel.First().Text())
		scores[selector] = len(text)
		texts[selector] = text
	}

	// Longest valid candidate wins; the strict > keeps first-declared on ties.
	best := ""
	bestLen := 0
	for _, selector := range selectors {
		if scores[selector] >= minLength && scores[selector] > bestLen {
			best = selector
			bestLen = scores[selector]
		}
	}

	if best != "" {
		return Result{
			Text:             texts[best],
			SelectorUsed:     best,
			ScoresBySelector: scores,
		}
	}

	return Result{
		Text:             Normalize(doc.Find("body").Text()),
		SelectorUsed:     "body",
		ScoresBySelector: scores,
	}
}

// Normalize collapses runs of blank lines, trims each line, and trims the
// whole text.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(cleaned) > 0 {
				cleaned = append(cleaned, "")
			}
			blank = true
			continue
		}
		blank = false
		cleaned = append(cleaned, line)
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}
