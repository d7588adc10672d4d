// Package ocr turns bill images and PDFs into text. Images go through a
// tesseract worker owned by a Manager; PDFs with a text layer are read
// directly.
package ocr

import "context"

const (
	// DefaultLanguages recognizes English and Traditional Chinese together.
	DefaultLanguages = "eng+chi_tra"
	// DefaultPSM is tesseract's fully automatic page segmentation.
	DefaultPSM = 3
	// StatusRecognizing is the status passed to progress callbacks.
	StatusRecognizing = "recognizing text"
)

// ProgressFunc receives recognition progress in percent.
type ProgressFunc func(percent int, status string)

// Recognizer is one OCR worker bound to a language set.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string, progress ProgressFunc) (string, error)
	Languages() string
	Close() error
}

// Factory starts a new worker for languages.
type Factory func(ctx context.Context, languages string) (Recognizer, error)

func report(progress ProgressFunc, percent int) {
	if progress != nil {
		progress(percent, StatusRecognizing)
	}
}
