package httpapi

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"fjacquet/clarity-ledger/internal/apperror"
	"fjacquet/clarity-ledger/internal/backup"
	"fjacquet/clarity-ledger/internal/dateutils"
	"fjacquet/clarity-ledger/internal/report"
)

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &apperror.ValidationError{Field: name, Reason: "must be a positive integer"}
	}
	return n, nil
}

// Summary answers GET /api/summary[?months=N].
func (h *Handler) Summary(c *gin.Context) {
	months, err := intQuery(c, "months", h.trendMonths)
	if err != nil {
		h.writeError(c, err)
		return
	}
	s, err := h.ledger.Summary(c.Request.Context(), months)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Report answers GET /api/report[?start=YYYY-MM-DD&end=YYYY-MM-DD&top=N].
// The range defaults to the current month.
func (h *Handler) Report(c *gin.Context) {
	start, end := report.DefaultReportRange(h.ledger.Now())
	if raw := c.Query("start"); raw != "" {
		t, err := dateutils.ParseISODate(raw)
		if err != nil {
			h.writeError(c, &apperror.ValidationError{Field: "start", Reason: err.Error()})
			return
		}
		start = t
	}
	if raw := c.Query("end"); raw != "" {
		t, err := dateutils.ParseISODate(raw)
		if err != nil {
			h.writeError(c, &apperror.ValidationError{Field: "end", Reason: err.Error()})
			return
		}
		end = t
	}
	top, err := intQuery(c, "top", report.DefaultTopCategories)
	if err != nil {
		h.writeError(c, err)
		return
	}
	r, err := h.ledger.RangeReport(c.Request.Context(), start, end, top)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Export answers GET /api/export[?format=json|csv] with a downloadable
// backup of every transaction.
func (h *Handler) Export(c *gin.Context) {
	ctx := c.Request.Context()
	filename := backup.ExportFileName(h.ledger.Now())
	switch format := c.DefaultQuery("format", "json"); format {
	case "json":
		data, err := h.ledger.ExportJSON(ctx)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "application/json", data)
	case "csv":
		var buf bytes.Buffer
		if err := h.ledger.ExportCSV(ctx, &buf, h.delimiter); err != nil {
			h.writeError(c, err)
			return
		}
		filename = strings.TrimSuffix(filename, ".json") + ".csv"
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Data(http.StatusOK, "text/csv", buf.Bytes())
	default:
		h.writeError(c, &apperror.ValidationError{Field: "format", Reason: "must be json or csv"})
	}
}

// Import answers POST /api/import. The body is a JSON backup document; it
// replaces the stored transactions only when every record is valid.
func (h *Handler) Import(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		badRequest(c, err)
		return
	}
	n, err := h.ledger.ImportTransactions(c.Request.Context(), data)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": n})
}
