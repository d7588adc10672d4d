package apperror

import (
	"errors"
	"fmt"
)

// ServiceErrorKind classifies failures of the external LLM service.
type ServiceErrorKind string

const (
	KindMissingCredential ServiceErrorKind = "missing_credential"
	KindInvalidCredential ServiceErrorKind = "invalid_credential"
	KindRateLimited       ServiceErrorKind = "rate_limited"
	KindRequestFailed     ServiceErrorKind = "request_failed"
	KindNetwork           ServiceErrorKind = "network"
	KindMalformedResponse ServiceErrorKind = "malformed_response"
	KindEmptyResponse     ServiceErrorKind = "empty_response"
)

// ServiceError is returned by every AI client and analyzer.
type ServiceError struct {
	Provider string
	Model    string
	Kind     ServiceErrorKind
	Status   int
	Message  string
	// RawResponse keeps the unparsed model output for malformed responses.
	RawResponse string
	Err         error
}

func (e *ServiceError) Error() string {
	msg := fmt.Sprintf("%s %s", e.Provider, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown to the user for this failure.
func (e *ServiceError) UserMessage() string {
	switch e.Kind {
	case KindMissingCredential:
		return "API key is not set. Configure it before using AI features."
	case KindInvalidCredential:
		return "Invalid API key. Please check your key and try again."
	case KindRateLimited:
		return fmt.Sprintf("Rate limit exceeded for model %s. Please try again later or choose another model.", e.Model)
	case KindRequestFailed:
		return fmt.Sprintf("AI request failed with status %d: %s", e.Status, e.Message)
	case KindNetwork:
		return "Network error while contacting the AI service. Please check your connection."
	case KindMalformedResponse:
		return "The AI service returned a response that could not be parsed."
	case KindEmptyResponse:
		return "The AI service returned no content."
	default:
		return "An unexpected error occurred while contacting the AI service."
	}
}

// IsKind reports whether err carries a ServiceError of the given kind.
func IsKind(err error, kind ServiceErrorKind) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Kind == kind
}
