package ai

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"fjacquet/clarity-ledger/internal/apperror"
	"fjacquet/clarity-ledger/internal/logging"
	"fjacquet/clarity-ledger/internal/models"
)

// multimodalMarkers are substrings of model ids known to accept images.
var multimodalMarkers = []string{"claude-3", "gpt-4o", "gpt-4-turbo", "gpt-4-vision", "llava", "gemini", "qwen"}

var fencedBlock = regexp.MustCompile("(?s)^```(\\w*)?\\s*\\n?(.*?)\\n?\\s*```$")

const (
	receiptMaxTokens   = 500
	receiptTemperature = 0.1
)

// IsMultimodalModel reports whether model is expected to accept images.
func IsMultimodalModel(model string) bool {
	lower := strings.ToLower(model)
	for _, marker := range multimodalMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// ReceiptInput is what the analyzer sends to the model.
type ReceiptInput struct {
	Text     string
	Image    *Image
	Currency models.Currency
	Language models.Language
}

// ReceiptAnalyzer asks a model to extract bill fields as JSON.
type ReceiptAnalyzer struct {
	client ChatClient
	model  string
	logger logging.Logger
}

func NewReceiptAnalyzer(client ChatClient, model string, logger logging.Logger) *ReceiptAnalyzer {
	if model == "" {
		model = DefaultModel
	}
	return &ReceiptAnalyzer{
		client: client,
		model:  model,
		logger: logging.OrDiscard(logger).WithField(logging.FieldComponent, "ReceiptAnalyzer"),
	}
}

// Model returns the model id requests are sent to.
func (a *ReceiptAnalyzer) Model() string {
	return a.model
}

// Configured reports whether the analyzer has a usable client.
func (a *ReceiptAnalyzer) Configured() bool {
	return IsConfigured(a.client)
}

// Analyze sends in to the model and parses its JSON answer. The image is
// only attached for multimodal models.
func (a *ReceiptAnalyzer) Analyze(ctx context.Context, in ReceiptInput) (models.AIExtractionResult, error) {
	if a.client == nil {
		return models.AIExtractionResult{}, &apperror.ServiceError{Provider: ProviderOpenRouter, Model: a.model, Kind: apperror.KindMissingCredential}
	}

	image := in.Image
	if image != nil && (len(image.Data) == 0 || !IsMultimodalModel(a.model)) {
		image = nil
	}
	userText := BuildReceiptUserPrompt(in.Text, image != nil)
	if userText == "" {
		return models.AIExtractionResult{}, &apperror.ValidationError{Field: "input", Reason: "no image or text provided for AI analysis"}
	}

	req := ChatRequest{
		Model:       a.model,
		System:      BuildReceiptSystemPrompt(in.Currency, in.Language),
		Text:        userText,
		Image:       image,
		MaxTokens:   receiptMaxTokens,
		Temperature: receiptTemperature,
		JSON:        true,
	}

	a.logger.Debug("Requesting receipt analysis",
		logging.F(logging.FieldModel, a.model),
		logging.F("with_image", image != nil))

	content, err := a.client.Complete(ctx, req)
	if err != nil {
		return models.AIExtractionResult{}, err
	}

	result, err := ParseExtraction(content)
	if err != nil {
		a.logger.WithError(err).Warn("Could not parse receipt analysis", logging.F(logging.FieldModel, a.model))
		return models.AIExtractionResult{}, &apperror.ServiceError{
			Provider:    a.client.Provider(),
			Model:       a.model,
			Kind:        apperror.KindMalformedResponse,
			Message:     "failed to parse the model's JSON response",
			RawResponse: content,
			Err:         err,
		}
	}
	return result, nil
}

type extractionPayload struct {
	Amount   json.Number `json:"amount"`
	Date     *string     `json:"date"`
	Vendor   *string     `json:"vendor"`
	Category *string     `json:"category"`
	Currency *string     `json:"currency"`
}

// StripCodeFence returns the body of a ```-fenced block, or s trimmed when
// it is not fenced.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if m := fencedBlock.FindStringSubmatch(s); m != nil && m[2] != "" {
		return strings.TrimSpace(m[2])
	}
	return s
}

// ParseExtraction decodes a model answer into an AIExtractionResult. The
// answer may be wrapped in a fenced code block.
func ParseExtraction(content string) (models.AIExtractionResult, error) {
	var p extractionPayload
	if err := json.Unmarshal([]byte(StripCodeFence(content)), &p); err != nil {
		return models.AIExtractionResult{}, err
	}

	result := models.AIExtractionResult{
		Date:        nonEmpty(p.Date),
		Vendor:      nonEmpty(p.Vendor),
		Category:    nonEmpty(p.Category),
		Currency:    nonEmpty(p.Currency),
		RawResponse: content,
	}
	if p.Amount != "" {
		v, err := p.Amount.Float64()
		if err != nil {
			return models.AIExtractionResult{}, err
		}
		result.Amount = &v
	}
	return result, nil
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
