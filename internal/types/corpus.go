package types

// Source records where a corpus document came from.
type Source struct {
	URL       string `json:"url"`
	Timestamp string `json:"timestamp"` // RFC3339
	Hash      string `json:"hash"`      // SHA-256 of the extracted text
}

// Corpus is the aggregate of a user's extracted blog posts.
// MergedText joins every extracted document with DocumentDelimiter in
// original feed order. Samples keeps a small set of documents verbatim
// for later few-shot reuse.
type Corpus struct {
	MergedText string   `json:"merged_text"`
	Samples    []string `json:"samples"`
	Sources    []Source `json:"sources,omitempty"`
}

// DocumentDelimiter separates documents inside MergedText.
const DocumentDelimiter = "\n\n---\n\n"
