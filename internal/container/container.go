// Package container provides dependency injection for the clarity
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"context"
	"errors"
	"fmt"

	"fjacquet/clarity-ledger/internal/ai"
	"fjacquet/clarity-ledger/internal/config"
	"fjacquet/clarity-ledger/internal/extraction"
	"fjacquet/clarity-ledger/internal/ledger"
	"fjacquet/clarity-ledger/internal/logging"
	"fjacquet/clarity-ledger/internal/models"
	"fjacquet/clarity-ledger/internal/ocr"
	"fjacquet/clarity-ledger/internal/report"
	"fjacquet/clarity-ledger/internal/scanner"
	"fjacquet/clarity-ledger/internal/store"
)

// Container holds all application dependencies and provides methods to access them.
//
// Container is immutable after creation - all fields are private and can only
// be accessed through getter methods.
type Container struct {
	logger    logging.Logger
	config    *config.Config
	store     store.KeyValueStore
	ledger    *ledger.Service
	extractor *extraction.Extractor
	ocr       *ocr.Manager
	aiClient  ai.ChatClient
	analyzer  *ai.ReceiptAnalyzer
	tips      *ai.TipAdvisor
	scanner   *scanner.BillScanner
	reports   *report.Generator
}

type options struct {
	logger     logging.Logger
	ocrFactory ocr.Factory
	aiClient   ai.ChatClient
	ledgerOpts []ledger.Option
}

// Option overrides one of the dependencies NewContainer would build.
type Option func(*options)

// WithLogger uses logger instead of one built from the log section.
func WithLogger(logger logging.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRecognizerFactory replaces the tesseract worker factory.
func WithRecognizerFactory(factory ocr.Factory) Option {
	return func(o *options) { o.ocrFactory = factory }
}

// WithChatClient replaces the provider client built from the ai section.
func WithChatClient(client ai.ChatClient) Option {
	return func(o *options) { o.aiClient = client }
}

// WithLedgerOptions passes options through to the ledger service.
func WithLedgerOptions(opts ...ledger.Option) Option {
	return func(o *options) { o.ledgerOpts = append(o.ledgerOpts, opts...) }
}

// NewContainer creates and wires all application dependencies.
// This is the main entry point for dependency injection in the application.
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Create logger first as it's needed by other components
	logger := o.logger
	if logger == nil {
		logger = cfg.NewLogger()
	}

	kv, err := store.Open(cfg.Data.Backend, cfg.DataDir(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Data.Backend, err)
	}

	rules, err := extraction.LoadRules(cfg.Extraction.RulesFile)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	extractor := extraction.NewExtractor(rules)

	factory := o.ocrFactory
	if factory == nil {
		factory = ocr.NewTesseractFactory(cfg.TesseractConfig(), logger)
	}
	ocrManager := ocr.NewManager(factory, cfg.OCR.Languages, logger)

	aiCfg := cfg.AIClientConfig()
	aiClient := o.aiClient
	if aiClient == nil {
		aiClient, err = ai.NewChatClient(ctx, aiCfg, logger)
		if err != nil {
			_ = kv.Close()
			return nil, fmt.Errorf("failed to create AI client: %w", err)
		}
	}
	if ai.IsConfigured(aiClient) {
		logger.Info("AI enhancement enabled",
			logging.F(logging.FieldProvider, aiClient.Provider()),
			logging.F(logging.FieldModel, aiCfg.ReceiptModel()))
	} else {
		logger.Info("AI enhancement disabled")
	}

	currency := cfg.CurrencyInfo()
	language := models.Language(cfg.Language)

	analyzer := ai.NewReceiptAnalyzer(aiClient, aiCfg.ReceiptModel(), logger)
	billScanner := scanner.New(ocrManager, extractor, analyzer, logger,
		scanner.WithLocale(currency, language))

	c := &Container{
		logger:    logger,
		config:    cfg,
		store:     kv,
		ledger:    ledger.NewService(kv, cfg.Data.UserID, logger, o.ledgerOpts...),
		extractor: extractor,
		ocr:       ocrManager,
		aiClient:  aiClient,
		analyzer:  analyzer,
		tips:      ai.NewTipAdvisor(aiClient, aiCfg.ChatModel(), logger),
		scanner:   billScanner,
		reports:   report.NewGenerator(logger, currency),
	}

	logger.Debug("Container initialized successfully",
		logging.F(logging.FieldBackend, cfg.Data.Backend),
		logging.F("ai_enabled", ai.IsConfigured(aiClient)))

	return c, nil
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetLedger returns the ledger service.
func (c *Container) GetLedger() *ledger.Service {
	return c.ledger
}

// GetExtractor returns the bill text heuristic.
func (c *Container) GetExtractor() *extraction.Extractor {
	return c.extractor
}

// GetOCRManager returns the OCR worker manager.
func (c *Container) GetOCRManager() *ocr.Manager {
	return c.ocr
}

// GetAIClient returns the chat client. It is never nil; check
// ai.IsConfigured before relying on it.
func (c *Container) GetAIClient() ai.ChatClient {
	return c.aiClient
}

// GetReceiptAnalyzer returns the AI receipt analyzer.
func (c *Container) GetReceiptAnalyzer() *ai.ReceiptAnalyzer {
	return c.analyzer
}

// GetScanner returns the bill scanner.
func (c *Container) GetScanner() *scanner.BillScanner {
	return c.scanner
}

// GetReportGenerator returns the summary/report renderer.
func (c *Container) GetReportGenerator() *report.Generator {
	return c.reports
}

// Currency returns the configured display currency.
func (c *Container) Currency() models.Currency {
	return c.config.CurrencyInfo()
}

// FinancialTip asks the tip advisor about the current ledger balance and
// the number of logged transactions.
func (c *Container) FinancialTip(ctx context.Context) (string, error) {
	txs, err := c.ledger.ListTransactions(ctx)
	if err != nil {
		return "", err
	}
	balance, _ := report.ComputeTotals(txs).Balance.Float64()
	return c.tips.Tip(ctx, ai.TipInput{
		Balance:     balance,
		RecentCount: len(txs),
		Currency:    c.Currency(),
		Language:    models.Language(c.config.Language),
	})
}

// Close terminates the OCR worker and releases the AI client and store.
func (c *Container) Close() error {
	var errs []error
	if err := c.ocr.Terminate(); err != nil {
		errs = append(errs, fmt.Errorf("terminate OCR worker: %w", err))
	}
	if err := c.aiClient.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close AI client: %w", err))
	}
	if err := c.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	c.logger.Debug("Container closed")
	return errors.Join(errs...)
}
