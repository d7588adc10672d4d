package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fjacquet/clarity-ledger/internal/dateutils"
	"fjacquet/clarity-ledger/internal/models"
	"fjacquet/clarity-ledger/internal/report"
)

type budgetRequest struct {
	Category     string  `json:"category"`
	TargetAmount float64 `json:"targetAmount"`
	MonthYear    string  `json:"monthYear"`
}

// ListBudgets answers GET /api/budgets. With ?month=YYYY-MM only that
// month's budgets are returned.
func (h *Handler) ListBudgets(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		budgets []models.Budget
		err     error
	)
	if month := strings.TrimSpace(c.Query("month")); month != "" {
		budgets, err = h.ledger.BudgetsForMonth(ctx, month)
	} else {
		budgets, err = h.ledger.ListBudgets(ctx)
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	if budgets == nil {
		budgets = []models.Budget{}
	}
	c.JSON(http.StatusOK, budgets)
}

func (h *Handler) CreateBudget(c *gin.Context) {
	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.ledger.AddBudget(c.Request.Context(), req.Category, req.TargetAmount, req.MonthYear)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *Handler) UpdateBudget(c *gin.Context) {
	var req budgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.ledger.UpdateBudget(c.Request.Context(), models.Budget{
		ID:           c.Param("id"),
		Category:     req.Category,
		TargetAmount: req.TargetAmount,
		MonthYear:    req.MonthYear,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *Handler) DeleteBudget(c *gin.Context) {
	if err := h.ledger.DeleteBudget(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BudgetStatus answers GET /api/budgets/status?month=YYYY-MM, defaulting to
// the current month.
func (h *Handler) BudgetStatus(c *gin.Context) {
	month := strings.TrimSpace(c.Query("month"))
	if month == "" {
		month = dateutils.MonthYear(h.ledger.Now())
	}
	statuses, err := h.ledger.BudgetStatuses(c.Request.Context(), month)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if statuses == nil {
		statuses = []report.BudgetStatus{}
	}
	c.JSON(http.StatusOK, gin.H{"monthYear": month, "budgets": statuses})
}
