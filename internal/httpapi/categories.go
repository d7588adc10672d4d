package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fjacquet/clarity-ledger/internal/models"
)

type categoryRequest struct {
	Name string `json:"name"`
}

func (h *Handler) categoryKind(c *gin.Context) (models.CategoryKind, bool) {
	kind, err := models.ParseCategoryKind(c.Param("kind"))
	if err != nil {
		badRequest(c, err)
		return "", false
	}
	return kind, true
}

// ListCategories answers GET /api/categories/:kind with defaults followed
// by custom categories.
func (h *Handler) ListCategories(c *gin.Context) {
	kind, ok := h.categoryKind(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	all, err := h.ledger.Categories(ctx, kind)
	if err != nil {
		h.writeError(c, err)
		return
	}
	custom, err := h.ledger.CustomCategories(ctx, kind)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if custom == nil {
		custom = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "categories": all, "custom": custom})
}

func (h *Handler) AddCategory(c *gin.Context) {
	kind, ok := h.categoryKind(c)
	if !ok {
		return
	}
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.ledger.AddCustomCategory(c.Request.Context(), kind, req.Name); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"kind": kind, "name": req.Name})
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	kind, ok := h.categoryKind(c)
	if !ok {
		return
	}
	if err := h.ledger.DeleteCustomCategory(c.Request.Context(), kind, c.Param("name")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
