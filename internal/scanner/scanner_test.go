package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/clarity-ledger/internal/ai"
	"fjacquet/clarity-ledger/internal/apperror"
	"fjacquet/clarity-ledger/internal/extraction"
	"fjacquet/clarity-ledger/internal/logging"
	"fjacquet/clarity-ledger/internal/models"
	"fjacquet/clarity-ledger/internal/ocr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecognizer struct {
	text  string
	err   error
	calls []string
}

func (f *fakeRecognizer) Recognize(_ context.Context, imagePath string, progress ocr.ProgressFunc) (string, error) {
	f.calls = append(f.calls, imagePath)
	if progress != nil {
		progress(100, ocr.StatusRecognizing)
	}
	return f.text, f.err
}

type fakeAnalyzer struct {
	configured bool
	result     models.AIExtractionResult
	err        error
	inputs     []ai.ReceiptInput
}

func (f *fakeAnalyzer) Analyze(_ context.Context, in ai.ReceiptInput) (models.AIExtractionResult, error) {
	f.inputs = append(f.inputs, in)
	return f.result, f.err
}

func (f *fakeAnalyzer) Configured() bool { return f.configured }

func strPtr(s string) *string      { return &s }
func floatPtr(f float64) *float64 { return &f }

func fixedNow() time.Time {
	return time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)
}

func newTestScanner(rec TextRecognizer, analyzer ReceiptAnalyzer, logger logging.Logger) *BillScanner {
	ex := extraction.NewExtractorWithClock(extraction.DefaultRules(), fixedNow)
	return New(rec, ex, analyzer, logger, WithClock(fixedNow))
}

func writeBill(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nfake"), 0600))
	return path
}

func TestScan_HeuristicOnly(t *testing.T) {
	rec := &fakeRecognizer{text: "STARBUCKS COFFEE\n2023-11-05\nTotal $8.40"}
	s := newTestScanner(rec, nil, nil)
	path := writeBill(t, t.TempDir(), "bill.png")

	var percents []int
	res, err := s.Scan(context.Background(), Request{
		Path:     path,
		Progress: func(p int, _ string) { percents = append(percents, p) },
	})
	require.NoError(t, err)

	assert.Equal(t, []string{path}, rec.calls)
	assert.Equal(t, []int{100}, percents)
	assert.Nil(t, res.AI)
	assert.NoError(t, res.AIErr)
	assert.Equal(t, models.TransactionTypeExpense, res.Draft.Type)
	assert.InDelta(t, 8.40, res.Draft.Amount, 1e-9)
	assert.Equal(t, "2023-11-05", res.Draft.Date)
	assert.Equal(t, "Food", res.Draft.Category)
	assert.Equal(t, DefaultDescription, res.Draft.Description)
	assert.Empty(t, res.Draft.ID)
}

func TestScan_NothingRecognized(t *testing.T) {
	s := newTestScanner(&fakeRecognizer{text: ""}, nil, nil)
	path := writeBill(t, t.TempDir(), "blank.jpg")

	res, err := s.Scan(context.Background(), Request{Path: path})
	require.NoError(t, err)

	assert.Zero(t, res.Draft.Amount)
	assert.Equal(t, "2024-03-15", res.Draft.Date)
	assert.Equal(t, models.CategoryOther, res.Draft.Category)
}

func TestScan_AIOverridesHeuristic(t *testing.T) {
	rec := &fakeRecognizer{text: "STARBUCKS COFFEE\n2023-11-05\nTotal $8.40"}
	analyzer := &fakeAnalyzer{
		configured: true,
		result: models.AIExtractionResult{
			Amount: floatPtr(9.10),
			Vendor: strPtr("Starbucks"),
			Date:   strPtr("2023-11-06"),
		},
	}
	s := newTestScanner(rec, analyzer, nil)
	path := writeBill(t, t.TempDir(), "bill.png")

	res, err := s.Scan(context.Background(), Request{Path: path, UseAI: true})
	require.NoError(t, err)

	require.Len(t, analyzer.inputs, 1)
	require.NotNil(t, analyzer.inputs[0].Image)
	assert.Equal(t, "image/png", analyzer.inputs[0].Image.MIMEType)
	assert.Equal(t, rec.text, analyzer.inputs[0].Text)

	require.NotNil(t, res.AI)
	assert.InDelta(t, 9.10, res.Draft.Amount, 1e-9)
	assert.Equal(t, "Starbucks", res.Draft.Description)
	assert.Equal(t, "2023-11-06", res.Draft.Date)
	// no AI category, heuristic keeps its suggestion
	assert.Equal(t, "Food", res.Draft.Category)
}

func TestScan_AIFailureFallsBack(t *testing.T) {
	logger := logging.NewMockLogger()
	rec := &fakeRecognizer{text: "Total $8.40"}
	analyzer := &fakeAnalyzer{
		configured: true,
		err:        &apperror.ServiceError{Provider: "openrouter", Kind: apperror.KindRateLimited},
	}
	s := newTestScanner(rec, analyzer, logger)
	path := writeBill(t, t.TempDir(), "bill.png")

	res, err := s.Scan(context.Background(), Request{Path: path, UseAI: true})
	require.NoError(t, err)

	assert.True(t, apperror.IsKind(res.AIErr, apperror.KindRateLimited))
	assert.NotEmpty(t, res.AIError)
	assert.Nil(t, res.AI)
	assert.InDelta(t, 8.40, res.Draft.Amount, 1e-9)
	assert.True(t, logger.HasEntry("WARN", "AI enhancement failed, using heuristic result"))
}

func TestScan_AINotConfigured(t *testing.T) {
	analyzer := &fakeAnalyzer{configured: false}
	s := newTestScanner(&fakeRecognizer{text: "Total 5.00"}, analyzer, nil)
	path := writeBill(t, t.TempDir(), "bill.png")

	res, err := s.Scan(context.Background(), Request{Path: path, UseAI: true})
	require.NoError(t, err)

	assert.False(t, s.AIAvailable())
	assert.Empty(t, analyzer.inputs)
	assert.Nil(t, res.AI)
}

func TestScan_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		s := newTestScanner(&fakeRecognizer{}, nil, nil)
		_, err := s.Scan(context.Background(), Request{Path: filepath.Join(dir, "nope.png")})
		assert.Error(t, err)
	})

	t.Run("directory", func(t *testing.T) {
		s := newTestScanner(&fakeRecognizer{}, nil, nil)
		_, err := s.Scan(context.Background(), Request{Path: dir})
		assert.Error(t, err)
	})

	t.Run("recognizer failure", func(t *testing.T) {
		workerErr := &apperror.WorkerError{Op: "recognize", Err: errors.New("boom")}
		s := newTestScanner(&fakeRecognizer{err: workerErr}, nil, nil)
		path := writeBill(t, dir, "bad.png")
		_, err := s.Scan(context.Background(), Request{Path: path})
		assert.ErrorIs(t, err, workerErr)
	})

	t.Run("no recognizer", func(t *testing.T) {
		s := newTestScanner(nil, nil, nil)
		path := writeBill(t, dir, "noengine.png")
		_, err := s.Scan(context.Background(), Request{Path: path})
		assert.Error(t, err)
	})
}

func TestScanPaths_Directory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "march")
	require.NoError(t, os.Mkdir(sub, 0750))
	writeBill(t, dir, "a.png")
	writeBill(t, sub, "b.JPG")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600))

	rec := &fakeRecognizer{text: "Total 12.00"}
	s := newTestScanner(rec, nil, nil)

	results, err := s.ScanPaths(context.Background(), []string{dir}, false)
	require.NoError(t, err)

	assert.Len(t, results, 2)
	assert.Len(t, rec.calls, 2)
	for _, r := range results {
		assert.InDelta(t, 12.0, r.Draft.Amount, 1e-9)
	}
}

func TestScanPaths_SkipsFailures(t *testing.T) {
	logger := logging.NewMockLogger()
	dir := t.TempDir()
	writeBill(t, dir, "a.png")

	s := newTestScanner(&fakeRecognizer{err: errors.New("unreadable")}, nil, logger)
	results, err := s.ScanPaths(context.Background(), []string{dir}, false)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.True(t, logger.HasEntry("WARN", "Skipping bill"))
}

func TestScanPaths_MissingPath(t *testing.T) {
	s := newTestScanner(&fakeRecognizer{}, nil, nil)
	_, err := s.ScanPaths(context.Background(), []string{filepath.Join(t.TempDir(), "missing")}, false)
	assert.Error(t, err)
}

func TestIsSupported(t *testing.T) {
	tests := map[string]bool{
		"bill.png":   true,
		"bill.JPEG":  true,
		"scan.pdf":   true,
		"scan.tiff":  true,
		"notes.txt":  false,
		"no_ext":     false,
		"photo.webp": true,
	}
	for path, want := range tests {
		assert.Equal(t, want, IsSupported(path), path)
	}
}
