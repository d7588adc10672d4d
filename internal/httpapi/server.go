// Package httpapi exposes the ledger, bill scanning and tips over a local
// JSON HTTP API built on gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"fjacquet/clarity-ledger/internal/apperror"
	"fjacquet/clarity-ledger/internal/ledger"
	"fjacquet/clarity-ledger/internal/logging"
	"fjacquet/clarity-ledger/internal/scanner"
)

// BillScanner scans an uploaded bill into a draft transaction.
type BillScanner interface {
	Scan(ctx context.Context, req scanner.Request) (scanner.Result, error)
}

// Tipper produces a financial tip for the current ledger.
type Tipper interface {
	FinancialTip(ctx context.Context) (string, error)
}

// Handler serves the API routes.
type Handler struct {
	ledger      *ledger.Service
	scanner     BillScanner
	tipper      Tipper
	logger      logging.Logger
	trendMonths int
	delimiter   rune
}

// Config carries the handler settings that come from configuration.
type Config struct {
	TrendMonths  int
	CSVDelimiter rune
}

// NewHandler creates a Handler. scanner and tipper may be nil, in which
// case their routes answer 503.
func NewHandler(svc *ledger.Service, billScanner BillScanner, tipper Tipper, cfg Config, logger logging.Logger) *Handler {
	if cfg.TrendMonths <= 0 {
		cfg.TrendMonths = 6
	}
	if cfg.CSVDelimiter == 0 {
		cfg.CSVDelimiter = ','
	}
	return &Handler{
		ledger:      svc,
		scanner:     billScanner,
		tipper:      tipper,
		logger:      logging.OrDiscard(logger).WithField(logging.FieldComponent, "httpapi"),
		trendMonths: cfg.TrendMonths,
		delimiter:   cfg.CSVDelimiter,
	}
}

// NewRouter registers every route of h on a new gin engine.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())

	api := r.Group("/api")
	api.GET("/transactions", h.ListTransactions)
	api.POST("/transactions", h.CreateTransaction)
	api.GET("/transactions/:id", h.GetTransaction)
	api.PUT("/transactions/:id", h.UpdateTransaction)
	api.DELETE("/transactions/:id", h.DeleteTransaction)

	api.GET("/budgets", h.ListBudgets)
	api.POST("/budgets", h.CreateBudget)
	api.GET("/budgets/status", h.BudgetStatus)
	api.PUT("/budgets/:id", h.UpdateBudget)
	api.DELETE("/budgets/:id", h.DeleteBudget)

	api.GET("/categories/:kind", h.ListCategories)
	api.POST("/categories/:kind", h.AddCategory)
	api.DELETE("/categories/:kind/:name", h.DeleteCategory)

	api.GET("/summary", h.Summary)
	api.GET("/report", h.Report)
	api.GET("/export", h.Export)
	api.POST("/import", h.Import)
	api.POST("/scan", h.Scan)
	api.POST("/tip", h.Tip)

	return r
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Debug("Handled request",
			logging.F("method", c.Request.Method),
			logging.F("path", c.FullPath()),
			logging.F(logging.FieldStatus, c.Writer.Status()),
			logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	}
}

// errorResponse is the body of every non-2xx answer.
type errorResponse struct {
	Error  string                 `json:"error"`
	Kind   string                 `json:"kind,omitempty"`
	Issues []apperror.ImportIssue `json:"issues,omitempty"`
}

// writeError maps the error taxonomy onto HTTP status codes.
func (h *Handler) writeError(c *gin.Context, err error) {
	var (
		validationErr *apperror.ValidationError
		importErr     *apperror.ImportError
		duplicateErr  *apperror.DuplicateBudgetError
		serviceErr    *apperror.ServiceError
		workerErr     *apperror.WorkerError
	)
	switch {
	case errors.As(err, &importErr):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "import", Issues: importErr.Issues})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "validation"})
	case errors.Is(err, apperror.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error(), Kind: "not_found"})
	case errors.As(err, &duplicateErr):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error(), Kind: "duplicate"})
	case errors.As(err, &serviceErr):
		c.JSON(http.StatusBadGateway, errorResponse{Error: serviceErr.UserMessage(), Kind: string(serviceErr.Kind)})
	case errors.As(err, &workerErr):
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: err.Error(), Kind: "ocr_worker"})
	default:
		h.logger.WithError(err).Error("Request failed", logging.F("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "validation"})
}
