// Package scanner turns a bill image or PDF into a draft transaction:
// text recognition, the local extraction heuristic and, when asked for,
// the AI receipt analyzer.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/clarity-ledger/internal/ai"
	"fjacquet/clarity-ledger/internal/apperror"
	"fjacquet/clarity-ledger/internal/dateutils"
	"fjacquet/clarity-ledger/internal/extraction"
	"fjacquet/clarity-ledger/internal/logging"
	"fjacquet/clarity-ledger/internal/models"
	"fjacquet/clarity-ledger/internal/ocr"
)

// DefaultDescription is used when no vendor could be determined.
const DefaultDescription = "Scanned bill"

var supportedExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".tif": true, ".tiff": true,
	".bmp": true, ".webp": true, ".gif": true, ".pdf": true,
}

// TextRecognizer is the part of ocr.Manager the scanner needs.
type TextRecognizer interface {
	Recognize(ctx context.Context, imagePath string, progress ocr.ProgressFunc) (string, error)
}

// ReceiptAnalyzer is the part of ai.ReceiptAnalyzer the scanner needs.
type ReceiptAnalyzer interface {
	Analyze(ctx context.Context, in ai.ReceiptInput) (models.AIExtractionResult, error)
	Configured() bool
}

// Request describes one bill to scan.
type Request struct {
	Path     string
	UseAI    bool
	Progress ocr.ProgressFunc
}

// Result carries every stage of a scan. AIErr is set when the AI step
// failed; Draft then falls back to the heuristic.
type Result struct {
	Path       string                     `json:"path"`
	Extraction models.ExtractionResult    `json:"extraction"`
	AI         *models.AIExtractionResult `json:"ai,omitempty"`
	AIErr      error                      `json:"-"`
	AIError    string                     `json:"aiError,omitempty"`
	Draft      models.Transaction         `json:"draft"`
}

// BillScanner orchestrates recognition and extraction.
type BillScanner struct {
	recognizer TextRecognizer
	extractor  *extraction.Extractor
	analyzer   ReceiptAnalyzer
	currency   models.Currency
	language   models.Language
	logger     logging.Logger
	now        func() time.Time
}

// Option customizes a BillScanner.
type Option func(*BillScanner)

// WithClock replaces time.Now for the default draft date.
func WithClock(now func() time.Time) Option {
	return func(s *BillScanner) { s.now = now }
}

// WithLocale sets the currency and language sent to the analyzer.
func WithLocale(currency models.Currency, language models.Language) Option {
	return func(s *BillScanner) {
		s.currency = currency
		s.language = language
	}
}

// New creates a BillScanner. analyzer may be nil.
func New(recognizer TextRecognizer, extractor *extraction.Extractor, analyzer ReceiptAnalyzer, logger logging.Logger, opts ...Option) *BillScanner {
	s := &BillScanner{
		recognizer: recognizer,
		extractor:  extractor,
		analyzer:   analyzer,
		currency:   models.CurrencyOrDefault(""),
		language:   models.LanguageEnglish,
		logger:     logging.OrDiscard(logger).WithField(logging.FieldComponent, "BillScanner"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AIAvailable reports whether AI enhancement can be requested.
func (s *BillScanner) AIAvailable() bool {
	return s.analyzer != nil && s.analyzer.Configured()
}

// Scan reads the bill at req.Path and builds a draft expense. The draft is
// not stored.
func (s *BillScanner) Scan(ctx context.Context, req Request) (Result, error) {
	log := s.logger.WithField(logging.FieldFile, req.Path)

	info, err := os.Stat(req.Path)
	if err != nil {
		return Result{}, fmt.Errorf("cannot read bill %s: %w", req.Path, err)
	}
	if info.IsDir() {
		return Result{}, fmt.Errorf("bill %s is a directory", req.Path)
	}

	isPDF := ocr.IsPDF(req.Path)
	text, err := s.readText(ctx, req, isPDF)
	if err != nil {
		return Result{}, err
	}

	result := Result{Path: req.Path, Extraction: s.extractor.Extract(text)}

	if req.UseAI {
		if s.AIAvailable() {
			aiResult, aiErr := s.analyze(ctx, req.Path, text, isPDF)
			if aiErr != nil {
				log.WithError(aiErr).Warn("AI enhancement failed, using heuristic result")
				result.AIErr = aiErr
				result.AIError = userMessage(aiErr)
			} else {
				result.AI = &aiResult
			}
		} else {
			log.Debug("AI enhancement requested but not configured")
		}
	}

	result.Draft = s.draft(result.Extraction, result.AI)
	log.Info("Bill scanned",
		logging.F("amount", result.Draft.Amount),
		logging.F(logging.FieldCategory, result.Draft.Category))
	return result, nil
}

// ScanPaths scans every supported file in paths, descending into
// directories. Files that fail are logged and skipped.
func (s *BillScanner) ScanPaths(ctx context.Context, paths []string, useAI bool) ([]Result, error) {
	var files []string
	for _, p := range paths {
		absPath, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path for %s: %w", p, err)
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path %s: %w", absPath, err)
		}
		if !info.IsDir() {
			files = append(files, absPath)
			continue
		}
		err = filepath.WalkDir(absPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				s.logger.WithError(err).WithField("path", path).Warn("Error walking path")
				return nil
			}
			if !d.IsDir() && IsSupported(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk directory %s: %w", absPath, err)
		}
	}

	results := make([]Result, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := s.Scan(ctx, Request{Path: f, UseAI: useAI})
		if err != nil {
			s.logger.WithError(err).WithField(logging.FieldFile, f).Warn("Skipping bill")
			continue
		}
		results = append(results, res)
	}
	return results, nil
}

// IsSupported reports whether path has an image or PDF extension.
func IsSupported(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

func (s *BillScanner) readText(ctx context.Context, req Request, isPDF bool) (string, error) {
	if isPDF {
		text, err := ocr.ExtractPDFText(req.Path)
		if err != nil {
			return "", fmt.Errorf("failed to read PDF %s: %w", req.Path, err)
		}
		if strings.TrimSpace(text) != "" {
			if req.Progress != nil {
				req.Progress(100, ocr.StatusRecognizing)
			}
			return text, nil
		}
		s.logger.Debug("PDF has no text layer, falling back to OCR", logging.F(logging.FieldFile, req.Path))
	}
	if s.recognizer == nil {
		return "", fmt.Errorf("no OCR engine available for %s", req.Path)
	}
	return s.recognizer.Recognize(ctx, req.Path, req.Progress)
}

func (s *BillScanner) analyze(ctx context.Context, path, text string, isPDF bool) (models.AIExtractionResult, error) {
	in := ai.ReceiptInput{Text: text, Currency: s.currency, Language: s.language}
	if !isPDF {
		if data, err := os.ReadFile(path); err == nil {
			in.Image = &ai.Image{MIMEType: http.DetectContentType(data), Data: data}
		}
	}
	return s.analyzer.Analyze(ctx, in)
}

// draft merges the heuristic and AI results. AI values win when present.
func (s *BillScanner) draft(ex models.ExtractionResult, aiRes *models.AIExtractionResult) models.Transaction {
	tx := models.Transaction{
		Type:        models.TransactionTypeExpense,
		Description: DefaultDescription,
		Category:    models.CategoryOther,
		Date:        dateutils.ToISODate(s.now()),
	}
	if ex.Amount != nil {
		tx.Amount = *ex.Amount
	}
	if ex.Date != nil {
		tx.Date = *ex.Date
	}
	if ex.SuggestedCategory != nil {
		tx.Category = *ex.SuggestedCategory
	}
	if aiRes == nil {
		return tx
	}
	if aiRes.Amount != nil && *aiRes.Amount > 0 {
		tx.Amount = *aiRes.Amount
	}
	if aiRes.Date != nil {
		if day, err := dateutils.NormalizeDate(*aiRes.Date); err == nil {
			tx.Date = day
		}
	}
	if aiRes.Category != nil {
		tx.Category = *aiRes.Category
	}
	if aiRes.Vendor != nil {
		tx.Description = *aiRes.Vendor
	}
	return tx
}

func userMessage(err error) string {
	var svcErr *apperror.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.UserMessage()
	}
	return err.Error()
}
