// Package types defines shared domain types used across the voicereview pipeline.
package types

// WritingStyle captures how the author writes: register, mood, and rhythm.
type WritingStyle struct {
	Formality       string   `json:"formality"`
	Tone            string   `json:"tone"`
	Emotion         string   `json:"emotion"`
	SentenceLength  string   `json:"sentence_length"`
	Pacing          string   `json:"pacing"`
	HabitualPhrases []string `json:"habitual_phrases"`
	EmojiUsage      string   `json:"emoji_usage"`
	StyleNotes      string   `json:"style_notes"`
}

// StructurePattern captures how the author organizes a post.
type StructurePattern struct {
	OpeningStyle     string   `json:"opening_style"`
	FrequentSections []string `json:"frequent_sections"`
}

// KeywordProfile captures the author's vocabulary and topical leanings.
type KeywordProfile struct {
	FrequentWords []string `json:"frequent_words"`
	TopicBias     string   `json:"topic_bias"`
}

// StyleProfile is the structured voice profile derived from a user's writing.
// All three groups must be present for the profile to be usable; a profile
// missing any group is rejected whole, never partially accepted.
// Profiles are immutable once produced; a new analysis run replaces the old row.
type StyleProfile struct {
	WritingStyle     *WritingStyle     `json:"writing_style"`
	StructurePattern *StructurePattern `json:"structure_pattern"`
	KeywordProfile   *KeywordProfile   `json:"keyword_profile"`
}

// Complete reports whether all three required groups are present.
func (p *StyleProfile) Complete() bool {
	if p == nil {
		return false
	}
	return p.WritingStyle != nil && p.StructurePattern != nil && p.KeywordProfile != nil
}

// MissingGroups returns the names of absent top-level groups.
func (p *StyleProfile) MissingGroups() []string {
	var missing []string
	if p == nil {
		return []string{"writing_style", "structure_pattern", "keyword_profile"}
	}
	if p.WritingStyle == nil {
		missing = append(missing, "writing_style")
	}
	if p.StructurePattern == nil {
		missing = append(missing, "structure_pattern")
	}
	if p.KeywordProfile == nil {
		missing = append(missing, "keyword_profile")
	}
	return missing
}
