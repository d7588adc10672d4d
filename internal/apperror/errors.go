// Package apperror defines the error taxonomy shared by the ledger, the
// import pipeline and the external collaborators (LLM service, OCR worker).
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is matched by every NotFoundError through errors.Is.
var ErrNotFound = errors.New("not found")

// NotFoundError reports a missing transaction, budget or category.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents a rejected field value. Nothing is persisted
// when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DuplicateBudgetError is returned when a budget for the same category and
// month already exists.
type DuplicateBudgetError struct {
	Category  string
	MonthYear string
}

func (e *DuplicateBudgetError) Error() string {
	return fmt.Sprintf("a budget for %s in %s already exists", e.Category, e.MonthYear)
}

// ImportIssue describes one invalid record of an import batch.
type ImportIssue struct {
	Index  int
	Field  string
	Reason string
}

func (i ImportIssue) String() string {
	return fmt.Sprintf("record %d: %s %s", i.Index, i.Field, i.Reason)
}

// ImportError rejects a whole import batch. Reason is set when the document
// itself is unusable, Issues when individual records failed validation.
type ImportError struct {
	Reason string
	Issues []ImportIssue
}

func (e *ImportError) Error() string {
	if e.Reason != "" {
		return "import rejected: " + e.Reason
	}
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.String())
	}
	return fmt.Sprintf("import rejected: %d invalid field(s): %s", len(e.Issues), strings.Join(parts, "; "))
}

// WorkerError reports an OCR worker lifecycle failure. The worker is
// discarded, so retrying the operation starts from a fresh worker.
type WorkerError struct {
	Op  string
	Err error
}

func (e *WorkerError) Error() string {
	return fmt.Sprintf("ocr worker %s failed: %v", e.Op, e.Err)
}

func (e *WorkerError) Unwrap() error {
	return e.Err
}
