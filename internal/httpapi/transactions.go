package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fjacquet/clarity-ledger/internal/filter"
	"fjacquet/clarity-ledger/internal/logging"
	"fjacquet/clarity-ledger/internal/models"
)

// transactionRequest is the body accepted by create and update. The id
// and userId are never taken from the client.
type transactionRequest struct {
	Description string   `json:"description"`
	Amount      float64  `json:"amount"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
}

func (r transactionRequest) toModel(id string) models.Transaction {
	return models.Transaction{
		ID:          id,
		Description: r.Description,
		Amount:      r.Amount,
		Type:        models.TransactionType(r.Type),
		Category:    r.Category,
		Date:        r.Date,
		Tags:        r.Tags,
	}
}

// ListTransactions answers GET /api/transactions, optionally filtered by
// the query parameters of filter.Criteria.
func (h *Handler) ListTransactions(c *gin.Context) {
	var criteria filter.Criteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		badRequest(c, err)
		return
	}
	txs, err := h.ledger.FilterTransactions(c.Request.Context(), criteria)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	c.JSON(http.StatusOK, txs)
}

func (h *Handler) GetTransaction(c *gin.Context) {
	tx, err := h.ledger.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *Handler) CreateTransaction(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	tx, err := h.ledger.AddTransaction(c.Request.Context(), req.toModel(""))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

func (h *Handler) UpdateTransaction(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	tx, err := h.ledger.UpdateTransaction(c.Request.Context(), req.toModel(c.Param("id")))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *Handler) DeleteTransaction(c *gin.Context) {
	id := c.Param("id")
	if err := h.ledger.DeleteTransaction(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	h.logger.Debug("Deleted transaction over HTTP", logging.F(logging.FieldTransactionID, id))
	c.Status(http.StatusNoContent)
}
