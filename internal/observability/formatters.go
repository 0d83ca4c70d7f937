// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/voicereview/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintStyleProfile outputs a human-readable summary of a style profile.
func (p *Printer) PrintStyleProfile(profile *types.StyleProfile) {
	if profile == nil || !profile.Complete() {
		return
	}

	var sb strings.Builder
	ws := profile.WritingStyle
	sb.WriteString(fmt.Sprintf("Formality: %s\n", ws.Formality))
	sb.WriteString(fmt.Sprintf("Tone:      %s\n", ws.Tone))
	sb.WriteString(fmt.Sprintf("Emotion:   %s\n", ws.Emotion))
	sb.WriteString(fmt.Sprintf("Sentences: %s\n", ws.SentenceLength))
	sb.WriteString(fmt.Sprintf("Pacing:    %s\n", ws.Pacing))
	sb.WriteString(fmt.Sprintf("Emoji:     %s\n", ws.EmojiUsage))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Opening:   %s\n", profile.StructurePattern.OpeningStyle))

	words := profile.KeywordProfile.FrequentWords
	if len(words) > maxItemsToShow {
		words = words[:maxItemsToShow]
	}
	sb.WriteString(fmt.Sprintf("Keywords:  %s\n", strings.Join(words, ", ")))
	sb.WriteString(fmt.Sprintf("Topic:     %s", profile.KeywordProfile.TopicBias))

	p.printBox("Style Profile", sb.String())
}

// PrintCorpusSummary outputs ingestion statistics.
func (p *Printer) PrintCorpusSummary(corpus *types.Corpus) {
	if corpus == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Documents: %d\n", len(corpus.Sources)))
	sb.WriteString(fmt.Sprintf("Samples:   %d\n", len(corpus.Samples)))
	sb.WriteString(fmt.Sprintf("Text size: %d chars", len(corpus.MergedText)))

	shown := 0
	for _, source := range corpus.Sources {
		if shown == maxItemsToShow {
			break
		}
		sb.WriteString(fmt.Sprintf("\n- %s", source.URL))
		shown++
	}

	p.printBox("Corpus", sb.String())
}
