package voice

import (
	"context"

	"github.com/jonathan/voicereview/internal/types"
)

// Synthesizer derives a style profile from corpus text. The heuristic and
// delegated strategies are interchangeable behind this contract.
type Synthesizer interface {
	Synthesize(ctx context.Context, corpusText string) (*types.StyleProfile, error)
}
