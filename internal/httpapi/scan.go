package httpapi

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"fjacquet/clarity-ledger/internal/apperror"
	"fjacquet/clarity-ledger/internal/logging"
	"fjacquet/clarity-ledger/internal/scanner"
)

// Scan answers POST /api/scan. The multipart field "file" carries the bill
// and the optional field "ai" requests AI enhancement. The draft is
// returned, not stored.
func (h *Handler) Scan(c *gin.Context) {
	if h.scanner == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "bill scanning is not available"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		h.writeError(c, &apperror.ValidationError{Field: "file", Reason: "a bill upload is required"})
		return
	}
	if !scanner.IsSupported(file.Filename) {
		h.writeError(c, &apperror.ValidationError{Field: "file", Reason: "must be an image or PDF"})
		return
	}
	useAI := false
	if raw := c.PostForm("ai"); raw != "" {
		if useAI, err = strconv.ParseBool(raw); err != nil {
			h.writeError(c, &apperror.ValidationError{Field: "ai", Reason: "must be a boolean"})
			return
		}
	}

	dir, err := os.MkdirTemp("", "clarity-scan-")
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			h.logger.WithError(err).Warn("Failed to remove scan upload")
		}
	}()
	path := filepath.Join(dir, "bill"+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		h.writeError(c, err)
		return
	}

	res, err := h.scanner.Scan(c.Request.Context(), scanner.Request{Path: path, UseAI: useAI})
	if err != nil {
		h.writeError(c, err)
		return
	}
	res.Path = file.Filename
	h.logger.Debug("Scanned uploaded bill", logging.F(logging.FieldFile, file.Filename))
	c.JSON(http.StatusOK, res)
}

// Tip answers POST /api/tip with one AI financial tip.
func (h *Handler) Tip(c *gin.Context) {
	if h.tipper == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: "financial tips are not available"})
		return
	}
	tip, err := h.tipper.FinancialTip(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tip": tip})
}
