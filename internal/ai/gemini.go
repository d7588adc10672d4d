package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"fjacquet/clarity-ledger/internal/apperror"
	"fjacquet/clarity-ledger/internal/logging"

	"github.com/google/generative-ai-go/genai"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// GeminiClient serves ChatClient through the Google Gemini SDK.
type GeminiClient struct {
	client  *genai.Client
	limiter *rate.Limiter
	logger  logging.Logger
}

// NewGeminiClient opens a Gemini client authenticated with cfg.APIKey.
// Requests are paced to cfg.RequestsPerMinute when it is positive.
func NewGeminiClient(ctx context.Context, cfg Config, logger logging.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, &apperror.ServiceError{Provider: ProviderGemini, Kind: apperror.KindMissingCredential}
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{
		client:  client,
		limiter: newRequestLimiter(cfg.RequestsPerMinute),
		logger:  logging.OrDiscard(logger).WithField(logging.FieldProvider, ProviderGemini),
	}, nil
}

func (c *GeminiClient) Provider() string { return ProviderGemini }

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// Complete sends the system instruction and the user text as leading text
// parts, followed by the image when present.
func (c *GeminiClient) Complete(ctx context.Context, req ChatRequest) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", &apperror.ServiceError{Provider: ProviderGemini, Model: req.Model, Kind: apperror.KindNetwork,
			Message: "request cancelled while waiting for rate limiter", Err: err}
	}

	model := c.client.GenerativeModel(req.Model)
	model.SetTemperature(float32(req.Temperature))
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}

	var parts []genai.Part
	if req.System != "" {
		parts = append(parts, genai.Text(req.System))
	}
	if req.Image != nil {
		format := strings.TrimPrefix(req.Image.MIMEType, "image/")
		parts = append(parts, genai.ImageData(format, req.Image.Data))
	}
	text := req.Text
	if req.JSON {
		text += "\n\nRespond with a single JSON object only."
	}
	if strings.TrimSpace(text) != "" {
		parts = append(parts, genai.Text(text))
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		c.logger.WithError(err).Warn("Gemini request failed", logging.F(logging.FieldModel, req.Model))
		return "", classifyGeminiError(req.Model, err)
	}

	var sb strings.Builder
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", &apperror.ServiceError{Provider: ProviderGemini, Model: req.Model, Kind: apperror.KindEmptyResponse}
	}
	return out, nil
}

// classifyGeminiError maps SDK errors onto the service error kinds, using
// the gRPC status when available and the REST error code otherwise.
func classifyGeminiError(model string, err error) error {
	svcErr := &apperror.ServiceError{Provider: ProviderGemini, Model: model, Kind: apperror.KindRequestFailed, Err: err}

	if st, ok := status.FromError(err); ok && st.Code() != codes.Unknown {
		svcErr.Message = st.Message()
		switch st.Code() {
		case codes.Unauthenticated, codes.PermissionDenied:
			svcErr.Kind = apperror.KindInvalidCredential
			svcErr.Status = http.StatusUnauthorized
		case codes.ResourceExhausted:
			svcErr.Kind = apperror.KindRateLimited
			svcErr.Status = http.StatusTooManyRequests
		case codes.Unavailable, codes.DeadlineExceeded, codes.Canceled:
			svcErr.Kind = apperror.KindNetwork
		}
		return svcErr
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		svcErr.Status = apiErr.Code
		svcErr.Message = apiErr.Message
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			svcErr.Kind = apperror.KindInvalidCredential
		case http.StatusTooManyRequests:
			svcErr.Kind = apperror.KindRateLimited
		}
		return svcErr
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		svcErr.Kind = apperror.KindNetwork
	}
	return svcErr
}
