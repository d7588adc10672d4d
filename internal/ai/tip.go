package ai

import (
	"context"

	"fjacquet/clarity-ledger/internal/apperror"
	"fjacquet/clarity-ledger/internal/logging"
	"fjacquet/clarity-ledger/internal/models"
)

const (
	tipMaxTokens   = 150
	tipTemperature = 0.7
)

// TipInput is the financial snapshot a tip is based on.
type TipInput struct {
	Balance     float64
	RecentCount int
	Currency    models.Currency
	Language    models.Language
}

// TipAdvisor produces a short financial tip.
type TipAdvisor struct {
	client ChatClient
	model  string
	logger logging.Logger
}

func NewTipAdvisor(client ChatClient, model string, logger logging.Logger) *TipAdvisor {
	if model == "" {
		model = DefaultModel
	}
	return &TipAdvisor{
		client: client,
		model:  model,
		logger: logging.OrDiscard(logger).WithField(logging.FieldComponent, "TipAdvisor"),
	}
}

// Tip asks the model for one tip about in.
func (t *TipAdvisor) Tip(ctx context.Context, in TipInput) (string, error) {
	if t.client == nil {
		return "", &apperror.ServiceError{Provider: ProviderOpenRouter, Model: t.model, Kind: apperror.KindMissingCredential}
	}
	tip, err := t.client.Complete(ctx, ChatRequest{
		Model:       t.model,
		Text:        BuildTipPrompt(in),
		MaxTokens:   tipMaxTokens,
		Temperature: tipTemperature,
	})
	if err != nil {
		t.logger.WithError(err).Warn("Financial tip request failed", logging.F(logging.FieldModel, t.model))
		return "", err
	}
	t.logger.Debug("Financial tip received", logging.F(logging.FieldModel, t.model))
	return tip, nil
}
