package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"fjacquet/clarity-ledger/internal/logging"
)

// TesseractConfig locates and tunes the tesseract binary.
type TesseractConfig struct {
	Binary string
	PSM    int
}

// Intermediate progress points reported by TesseractEngine.Recognize.
const (
	ProgressStarted = 10
	ProgressExited  = 90
)

// TesseractEngine runs the tesseract command line tool once per image.
type TesseractEngine struct {
	binary    string
	languages string
	psm       int
	logger    logging.Logger
}

// NewTesseractEngine verifies that the binary can be executed and returns
// an engine for languages.
func NewTesseractEngine(ctx context.Context, cfg TesseractConfig, languages string, logger logging.Logger) (*TesseractEngine, error) {
	binary := cfg.Binary
	if binary == "" {
		binary = "tesseract"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("tesseract binary %q not found: %w", binary, err)
	}
	if err := exec.CommandContext(ctx, path, "--version").Run(); err != nil {
		return nil, fmt.Errorf("tesseract binary %q is not usable: %w", path, err)
	}
	if languages == "" {
		languages = DefaultLanguages
	}
	psm := cfg.PSM
	if psm <= 0 {
		psm = DefaultPSM
	}
	logger = logging.OrDiscard(logger).WithFields(
		logging.F(logging.FieldComponent, "Tesseract"),
		logging.F(logging.FieldLanguages, languages))
	logger.Debug("Tesseract engine ready", logging.F(logging.FieldFile, path))
	return &TesseractEngine{binary: path, languages: languages, psm: psm, logger: logger}, nil
}

// NewTesseractFactory returns a Factory producing tesseract engines.
func NewTesseractFactory(cfg TesseractConfig, logger logging.Logger) Factory {
	return func(ctx context.Context, languages string) (Recognizer, error) {
		return NewTesseractEngine(ctx, cfg, languages, logger)
	}
}

func (e *TesseractEngine) Languages() string {
	return e.languages
}

// Recognize prints the recognized text of imagePath.
func (e *TesseractEngine) Recognize(ctx context.Context, imagePath string, progress ProgressFunc) (string, error) {
	if _, err := os.Stat(imagePath); err != nil {
		return "", fmt.Errorf("cannot read image: %w", err)
	}
	report(progress, 0)

	cmd := exec.CommandContext(ctx, e.binary, imagePath, "stdout",
		"-l", e.languages, "--psm", strconv.Itoa(e.psm))
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// The CLI has no progress stream, so progress follows the process lifecycle.
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("tesseract failed to start: %w", err)
	}
	report(progress, ProgressStarted)

	if err := cmd.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		e.logger.WithError(err).Warn("Tesseract failed", logging.F("stderr", strings.TrimSpace(stderr.String())))
		return "", fmt.Errorf("tesseract failed: %w", err)
	}
	report(progress, ProgressExited)

	text := stdout.String()
	report(progress, 100)
	return text, nil
}

// Close is a no-op; each recognition is its own process.
func (e *TesseractEngine) Close() error {
	return nil
}
