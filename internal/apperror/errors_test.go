package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	err := fmt.Errorf("update: %w", &NotFoundError{Entity: "transaction", ID: "tx-1"})

	assert.EqualError(t, err, "update: transaction 'tx-1' not found")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	assert.Equal(t, "invalid amount: must be greater than zero", err.Error())

	var target *ValidationError
	assert.True(t, errors.As(fmt.Errorf("add: %w", err), &target))
	assert.Equal(t, "amount", target.Field)
}

func TestDuplicateBudgetError(t *testing.T) {
	err := &DuplicateBudgetError{Category: "Food", MonthYear: "2024-03"}
	assert.Equal(t, "a budget for Food in 2024-03 already exists", err.Error())
}

func TestImportError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ImportError
		expected string
	}{
		{
			name:     "document level reason",
			err:      &ImportError{Reason: "expected a JSON array"},
			expected: "import rejected: expected a JSON array",
		},
		{
			name: "record issues",
			err: &ImportError{Issues: []ImportIssue{
				{Index: 0, Field: "amount", Reason: "must be a number greater than zero"},
				{Index: 2, Field: "type", Reason: "must be INCOME or EXPENSE"},
			}},
			expected: "import rejected: 2 invalid field(s): record 0: amount must be a number greater than zero; record 2: type must be INCOME or EXPENSE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestWorkerError_Unwrap(t *testing.T) {
	cause := errors.New("tesseract exited with status 1")
	err := &WorkerError{Op: "recognize", Err: cause}

	assert.Equal(t, "ocr worker recognize failed: tesseract exited with status 1", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestServiceError(t *testing.T) {
	tests := []struct {
		name        string
		err         *ServiceError
		expectError string
		expectUser  string
	}{
		{
			name:        "rate limited names the model",
			err:         &ServiceError{Provider: "openrouter", Model: "deepseek/deepseek-chat:free", Kind: KindRateLimited, Status: 429},
			expectError: "openrouter rate_limited (status 429)",
			expectUser:  "Rate limit exceeded for model deepseek/deepseek-chat:free. Please try again later or choose another model.",
		},
		{
			name:        "request failed carries status and message",
			err:         &ServiceError{Provider: "openrouter", Kind: KindRequestFailed, Status: 500, Message: "upstream down"},
			expectError: "openrouter request_failed (status 500): upstream down",
			expectUser:  "AI request failed with status 500: upstream down",
		},
		{
			name:        "network wraps cause",
			err:         &ServiceError{Provider: "gemini", Kind: KindNetwork, Err: errors.New("dial tcp: timeout")},
			expectError: "gemini network: dial tcp: timeout",
			expectUser:  "Network error while contacting the AI service. Please check your connection.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectError, tt.err.Error())
			assert.Equal(t, tt.expectUser, tt.err.UserMessage())
		})
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("tip: %w", &ServiceError{Kind: KindInvalidCredential})

	assert.True(t, IsKind(err, KindInvalidCredential))
	assert.False(t, IsKind(err, KindNetwork))
	assert.False(t, IsKind(errors.New("plain"), KindNetwork))
}
