package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fjacquet/clarity-ledger/internal/apperror"
	"fjacquet/clarity-ledger/internal/logging"

	"golang.org/x/time/rate"
)

// OpenRouterClient calls an OpenAI-compatible chat-completions endpoint.
// Each Complete is a single request without retries.
type OpenRouterClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     logging.Logger
}

// NewOpenRouterClient creates a client from cfg. RequestsPerMinute <= 0
// disables pacing.
func NewOpenRouterClient(cfg Config, logger logging.Logger) *OpenRouterClient {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &OpenRouterClient{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    newRequestLimiter(cfg.RequestsPerMinute),
		logger:     logging.OrDiscard(logger).WithField(logging.FieldProvider, ProviderOpenRouter),
	}
}

// newRequestLimiter paces requests to rpm per minute; rpm <= 0 is unlimited.
func newRequestLimiter(rpm int) *rate.Limiter {
	if rpm <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1)
}

func (c *OpenRouterClient) Provider() string { return ProviderOpenRouter }

func (c *OpenRouterClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content interface{} `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func buildMessages(req ChatRequest) []chatMessage {
	var messages []chatMessage
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	if req.Image == nil {
		return append(messages, chatMessage{Role: "user", Content: req.Text})
	}
	dataURI := fmt.Sprintf("data:%s;base64,%s", req.Image.MIMEType, base64.StdEncoding.EncodeToString(req.Image.Data))
	parts := []contentPart{{Type: "image_url", ImageURL: &imageURL{URL: dataURI}}}
	if req.Text != "" {
		parts = append(parts, contentPart{Type: "text", Text: req.Text})
	}
	return append(messages, chatMessage{Role: "user", Content: parts})
}

// Complete posts req to <base>/chat/completions.
func (c *OpenRouterClient) Complete(ctx context.Context, req ChatRequest) (string, error) {
	fail := func(kind apperror.ServiceErrorKind, status int, msg string, err error) *apperror.ServiceError {
		return &apperror.ServiceError{Provider: ProviderOpenRouter, Model: req.Model, Kind: kind, Status: status, Message: msg, Err: err}
	}

	if c.apiKey == "" {
		return "", fail(apperror.KindMissingCredential, 0, "", nil)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fail(apperror.KindNetwork, 0, "request cancelled while waiting for rate limiter", err)
	}

	body := chatCompletionRequest{
		Model:       req.Model,
		Messages:    buildMessages(req),
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if req.JSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	log := c.logger.WithFields(logging.F(logging.FieldModel, req.Model))
	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.WithError(err).Warn("Chat completion request failed")
		return "", fail(apperror.KindNetwork, 0, "", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.WithError(cerr).Warn("Failed to close response body")
		}
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fail(apperror.KindNetwork, resp.StatusCode, "failed to read response", err)
	}
	log.Debug("Chat completion response received",
		logging.F(logging.FieldStatus, resp.StatusCode),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))

	var decoded chatCompletionResponse
	decodeErr := json.Unmarshal(raw, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := http.StatusText(resp.StatusCode)
		if decodeErr == nil && decoded.Error != nil && decoded.Error.Message != "" {
			msg = decoded.Error.Message
		}
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return "", fail(apperror.KindInvalidCredential, resp.StatusCode, msg, nil)
		case http.StatusTooManyRequests:
			return "", fail(apperror.KindRateLimited, resp.StatusCode, msg, nil)
		default:
			return "", fail(apperror.KindRequestFailed, resp.StatusCode, msg, nil)
		}
	}

	if decodeErr != nil {
		e := fail(apperror.KindMalformedResponse, resp.StatusCode, "response is not a chat completion", decodeErr)
		e.RawResponse = string(raw)
		return "", e
	}
	if len(decoded.Choices) == 0 {
		return "", fail(apperror.KindEmptyResponse, resp.StatusCode, "no choices returned", nil)
	}

	var content string
	switch v := decoded.Choices[0].Message.Content.(type) {
	case string:
		content = v
	case nil:
	default:
		b, _ := json.Marshal(v)
		content = string(b)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fail(apperror.KindEmptyResponse, resp.StatusCode, "empty message content", nil)
	}
	return content, nil
}
