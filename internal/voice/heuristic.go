package voice

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/jonathan/voicereview/internal/types"
)

// maxFrequentWords caps the ranked vocabulary kept on the profile.
const maxFrequentWords = 10

// maxHabitualPhrases caps the recurring sentence openers kept on the profile.
const maxHabitualPhrases = 5

// Heuristic synthesizes a style profile locally: tokenization, frequency
// counts, and substring-based tone rules. Fully deterministic, no external
// calls, and always yields all three profile groups for a non-empty corpus.
type Heuristic struct{}

// NewHeuristic returns the local synthesis strategy.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// stopWords are tokens too common to say anything about the author.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "that": true, "this": true,
	"with": true, "was": true, "were": true, "are": true, "but": true,
	"not": true, "you": true, "your": true, "have": true, "had": true,
	"has": true, "from": true, "they": true, "them": true, "there": true,
	"then": true, "its": true, "our": true, "out": true, "all": true,
	"can": true, "will": true, "just": true, "into": true, "about": true,
	"what": true, "when": true, "which": true, "also": true, "been": true,
	"really": true, "very": true, "more": true, "some": true, "like": true,
}

// Curated keyword sets for tone/formality/pacing classification. Substring
// presence against the lowercased corpus, Korean endings included since the
// target feeds are often Korean blogs.
var (
	casualMarkers   = []string{"lol", "haha", "btw", "gonna", "wanna", "ㅋㅋ", "ㅎㅎ", "~"}
	formalMarkers   = []string{"furthermore", "moreover", "therefore", "however", "습니다", "합니다"}
	positiveMarkers = []string{"love", "amazing", "great", "wonderful", "delicious", "best", "좋아", "맛있", "최고"}
	negativeMarkers = []string{"hate", "terrible", "awful", "worst", "disappointing", "별로", "아쉬"}
)

// Synthesize derives a profile from corpusText using local heuristics.
func (h *Heuristic) Synthesize(_ context.Context, corpusText string) (*types.StyleProfile, error) {
	corpusText = strings.TrimSpace(corpusText)
	if corpusText == "" {
		return nil, &EmptyCorpusError{}
	}

	lower := strings.ToLower(corpusText)
	sentences := splitSentences(corpusText)
	tokens := tokenize(corpusText)

	sentenceLength, meanWords := classifySentenceLength(sentences)
	formality := classifyByMarkers(lower, formalMarkers, casualMarkers, "formal", "casual", "conversational")
	emotion := classifyByMarkers(lower, positiveMarkers, negativeMarkers, "positive", "critical", "neutral")
	tone := "plain"
	if formality == "casual" || emotion == "positive" {
		tone = "warm"
	}
	if formality == "formal" {
		tone = "reserved"
	}
	pacing := classifyPacing(corpusText, sentences)
	emojiUsage := classifyEmojiUsage(corpusText)

	profile := &types.StyleProfile{
		WritingStyle: &types.WritingStyle{
			Formality:       formality,
			Tone:            tone,
			Emotion:         emotion,
			SentenceLength:  sentenceLength,
			Pacing:          pacing,
			HabitualPhrases: habitualPhrases(sentences),
			EmojiUsage:      emojiUsage,
			StyleNotes: fmt.Sprintf("%s sentences averaging %d words, %s pacing",
				sentenceLength, meanWords, pacing),
		},
		StructurePattern: &types.StructurePattern{
			OpeningStyle:     classifyOpenings(corpusText),
			FrequentSections: frequentSections(corpusText),
		},
		KeywordProfile: &types.KeywordProfile{
			FrequentWords: rankTokens(tokens, maxFrequentWords),
			TopicBias:     classifyTopic(lower),
		},
	}

	return profile, nil
}

// splitSentences breaks text on terminal punctuation and newlines.
func splitSentences(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool {
		switch r {
		case '.', '!', '?', '\n', '…':
			return true
		}
		return false
	})

	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// tokenize splits text into lowercase word-like spans of letters, dropping
// tokens shorter than 2 runes and stop words. Letter classes from any
// script count, so Hangul and Latin corpora both tokenize sensibly.
func tokenize(text string) []string {
	var tokens []string
	var current []rune
	flush := func() {
		if len(current) >= 2 {
			token := strings.ToLower(string(current))
			if !stopWords[token] {
				tokens = append(tokens, token)
			}
		}
		current = current[:0]
	}
	for _, r := range text {
		if unicode.IsLetter(r) {
			current = append(current, r)
			continue
		}
		flush()
	}
	flush()
	return tokens
}

// rankTokens returns the top-n tokens by frequency, ties broken
// alphabetically so output is deterministic.
func rankTokens(tokens []string, n int) []string {
	freq := make(map[string]int)
	for _, t := range tokens {
		freq[t]++
	}

	unique := make([]string, 0, len(freq))
	for t := range freq {
		unique = append(unique, t)
	}
	sort.Slice(unique, func(i, j int) bool {
		if freq[unique[i]] != freq[unique[j]] {
			return freq[unique[i]] > freq[unique[j]]
		}
		return unique[i] < unique[j]
	})

	if len(unique) > n {
		unique = unique[:n]
	}
	return unique
}

func classifySentenceLength(sentences []string) (string, int) {
	if len(sentences) == 0 {
		return "medium", 0
	}
	total := 0
	for _, s := range sentences {
		total += len(strings.Fields(s))
	}
	mean := total / len(sentences)
	switch {
	case mean < 8:
		return "short", mean
	case mean <= 18:
		return "medium", mean
	default:
		return "long", mean
	}
}

// classifyByMarkers picks a label by which curated set appears more often.
func classifyByMarkers(lower string, aMarkers, bMarkers []string, aLabel, bLabel, neutral string) string {
	a, b := 0, 0
	for _, m := range aMarkers {
		a += strings.Count(lower, m)
	}
	for _, m := range bMarkers {
		b += strings.Count(lower, m)
	}
	switch {
	case a > b:
		return aLabel
	case b > a:
		return bLabel
	default:
		return neutral
	}
}

func classifyPacing(text string, sentences []string) string {
	if len(sentences) == 0 {
		return "measured"
	}
	exclaims := strings.Count(text, "!")
	if exclaims*4 >= len(sentences) {
		return "energetic"
	}
	if strings.Count(text, "...")+strings.Count(text, "…") > len(sentences)/4 {
		return "meandering"
	}
	return "measured"
}

func classifyEmojiUsage(text string) string {
	emoji := 0
	for _, r := range text {
		if r >= 0x1F300 && r <= 0x1FAFF || r >= 0x2600 && r <= 0x27BF {
			emoji++
		}
	}
	runes := len([]rune(text))
	switch {
	case emoji == 0:
		return "none"
	case emoji*500 < runes:
		return "sparing"
	default:
		return "frequent"
	}
}

// habitualPhrases finds two-word sentence openers the author repeats.
func habitualPhrases(sentences []string) []string {
	freq := make(map[string]int)
	for _, s := range sentences {
		words := strings.Fields(s)
		if len(words) < 2 {
			continue
		}
		opener := strings.ToLower(words[0] + " " + words[1])
		freq[opener]++
	}

	var repeated []string
	for phrase, count := range freq {
		if count >= 2 {
			repeated = append(repeated, phrase)
		}
	}
	sort.Slice(repeated, func(i, j int) bool {
		if freq[repeated[i]] != freq[repeated[j]] {
			return freq[repeated[i]] > freq[repeated[j]]
		}
		return repeated[i] < repeated[j]
	})
	if len(repeated) > maxHabitualPhrases {
		repeated = repeated[:maxHabitualPhrases]
	}
	return repeated
}

// classifyOpenings looks at how each document starts.
func classifyOpenings(corpusText string) string {
	docs := strings.Split(corpusText, types.DocumentDelimiter)
	questions, exclaims := 0, 0
	for _, doc := range docs {
		sentences := splitSentences(doc)
		if len(sentences) == 0 {
			continue
		}
		first := strings.TrimSpace(strings.SplitN(doc, "\n", 2)[0])
		if strings.HasSuffix(first, "?") {
			questions++
		}
		if strings.HasSuffix(first, "!") {
			exclaims++
		}
	}
	switch {
	case questions*2 > len(docs):
		return "opens with a question"
	case exclaims*2 > len(docs):
		return "opens with an exclamation"
	default:
		return "opens with a scene-setting statement"
	}
}

// frequentSections collects short heading-like lines that recur across
// documents.
func frequentSections(corpusText string) []string {
	docs := strings.Split(corpusText, types.DocumentDelimiter)
	counts := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]bool)
		for _, line := range strings.Split(doc, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || len([]rune(line)) > 30 {
				continue
			}
			if strings.ContainsAny(line, ".!?") {
				continue
			}
			key := strings.ToLower(line)
			if !seen[key] {
				seen[key] = true
				counts[key]++
			}
		}
	}

	var sections []string
	for line, count := range counts {
		if count >= 2 {
			sections = append(sections, line)
		}
	}
	sort.Slice(sections, func(i, j int) bool {
		if counts[sections[i]] != counts[sections[j]] {
			return counts[sections[i]] > counts[sections[j]]
		}
		return sections[i] < sections[j]
	})
	return sections
}

// topicKeywords map curated vocabularies to a topic label.
var topicKeywords = []struct {
	label   string
	markers []string
}{
	{"dining", []string{"menu", "restaurant", "taste", "flavor", "lunch", "dinner", "cafe", "맛집", "메뉴"}},
	{"travel", []string{"trip", "travel", "hotel", "flight", "tour", "여행"}},
	{"tech", []string{"code", "software", "server", "release", "개발"}},
}

func classifyTopic(lower string) string {
	best := "general"
	bestCount := 0
	for _, topic := range topicKeywords {
		count := 0
		for _, m := range topic.markers {
			count += strings.Count(lower, m)
		}
		if count > bestCount {
			best = topic.label
			bestCount = count
		}
	}
	return best
}
