package models

// ExtractionResult is what the heuristic pulls out of OCR text. Nil fields
// mean the heuristic found nothing.
type ExtractionResult struct {
	RawText           string   `json:"rawText"`
	Amount            *float64 `json:"amount"`
	Date              *string  `json:"date"`
	SuggestedCategory *string  `json:"suggestedCategory"`
}

// AIExtractionResult is the structured answer of the language model.
type AIExtractionResult struct {
	Amount   *float64 `json:"amount"`
	Date     *string  `json:"date"`
	Vendor   *string  `json:"vendor"`
	Category *string  `json:"category"`
	Currency *string  `json:"currency"`
	// RawResponse is the unparsed model output, kept for diagnostics.
	RawResponse string `json:"-"`
}
