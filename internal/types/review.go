package types

// GenerationRequest carries the facts a review is generated from.
// Required fields must be non-empty; optional ones default to empty and
// are rendered as "no information available" in prompts.
type GenerationRequest struct {
	PlaceName  string `json:"place_name" validate:"required"`
	Location   string `json:"location" validate:"required"`
	VisitDate  string `json:"visit_date" validate:"required"`
	Menu       string `json:"menu" validate:"required"`
	Companions string `json:"companions" validate:"required"`
	Positives  string `json:"positives" validate:"required"`
	Negatives  string `json:"negatives"`
	FreeText   string `json:"free_text"`
	UserDraft  string `json:"user_draft"`
}

// EditRequest asks for an existing review to be revised.
type EditRequest struct {
	ReviewText  string `json:"review_text" validate:"required"`
	Instruction string `json:"instruction" validate:"required"`
}
