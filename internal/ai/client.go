// Package ai talks to large language models: a chat-completion client per
// provider, the receipt analyzer used by bill scanning and the financial
// tip advisor.
package ai

import (
	"context"
	"strings"
	"time"

	"fjacquet/clarity-ledger/internal/apperror"
	"fjacquet/clarity-ledger/internal/logging"
)

// Providers accepted by NewChatClient.
const (
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "deepseek/deepseek-chat:free"
	// DefaultGeminiModel is used by the Gemini provider when no model is configured.
	DefaultGeminiModel = "gemini-1.5-flash"
	// DefaultBaseURL is the OpenRouter API root.
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	// DefaultTimeout bounds a single completion request.
	DefaultTimeout = 60 * time.Second
)

// Image is an inline picture attached to a request.
type Image struct {
	MIMEType string
	Data     []byte
}

// ChatRequest is one single-turn completion: an optional system
// instruction, the user text and an optional image.
type ChatRequest struct {
	Model       string
	System      string
	Text        string
	Image       *Image
	MaxTokens   int
	Temperature float64
	// JSON asks the provider for a JSON object response.
	JSON bool
}

// ChatClient sends a completion request and returns the trimmed text of
// the first answer. Failures are *apperror.ServiceError.
type ChatClient interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
	Provider() string
	Close() error
}

// Config selects and configures the provider.
type Config struct {
	Provider          string
	APIKey            string
	Model             string
	OCRModel          string
	BaseURL           string
	RequestsPerMinute int
	Timeout           time.Duration
}

// ChatModel returns the model used for tips.
func (c Config) ChatModel() string {
	if m := strings.TrimSpace(c.Model); m != "" {
		return m
	}
	if c.Provider == ProviderGemini {
		return DefaultGeminiModel
	}
	return DefaultModel
}

// ReceiptModel returns the model used for bill scanning: the OCR model if
// set, else the general model, else the default.
func (c Config) ReceiptModel() string {
	if m := strings.TrimSpace(c.OCRModel); m != "" {
		return m
	}
	return c.ChatModel()
}

// NewChatClient builds the client for cfg.Provider. Without an API key the
// returned client fails every request with a missing-credential error.
func NewChatClient(ctx context.Context, cfg Config, logger logging.Logger) (ChatClient, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = ProviderOpenRouter
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return unconfiguredClient{provider: provider}, nil
	}
	switch provider {
	case ProviderOpenRouter:
		return NewOpenRouterClient(cfg, logger), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg, logger)
	default:
		return nil, &apperror.ValidationError{Field: "ai.provider", Reason: "must be openrouter or gemini"}
	}
}

type unconfiguredClient struct {
	provider string
}

func (u unconfiguredClient) Complete(_ context.Context, req ChatRequest) (string, error) {
	return "", &apperror.ServiceError{Provider: u.provider, Model: req.Model, Kind: apperror.KindMissingCredential}
}

func (u unconfiguredClient) Provider() string { return u.provider }

func (u unconfiguredClient) Close() error { return nil }

// IsConfigured reports whether client can actually reach a provider.
func IsConfigured(client ChatClient) bool {
	if client == nil {
		return false
	}
	_, missing := client.(unconfiguredClient)
	return !missing
}
