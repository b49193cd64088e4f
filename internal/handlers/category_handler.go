package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spendtrack/internal/services"
)

type CategoryHandler struct {
	accounts *services.AccountService
}

func NewCategoryHandler(accounts *services.AccountService) *CategoryHandler {
	return &CategoryHandler{accounts: accounts}
}

func categoryKind(c *gin.Context, kind string) bool {
	if kind != "expense" && kind != "income" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be expense or income"})
		return false
	}
	return true
}

func (h *CategoryHandler) List(c *gin.Context) {
	kind := c.DefaultQuery("kind", "expense")
	if !categoryKind(c, kind) {
		return
	}
	cats, err := h.accounts.ListCategories(callerID(c), kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": kind, "categories": cats})
}

func (h *CategoryHandler) Add(c *gin.Context) {
	var req struct {
		Kind string `json:"kind" binding:"required"`
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !categoryKind(c, req.Kind) {
		return
	}
	cats, err := h.accounts.AddCategory(callerID(c), req.Kind, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "add failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": req.Kind, "categories": cats})
}

func (h *CategoryHandler) Remove(c *gin.Context) {
	var req struct {
		Kind string `json:"kind" binding:"required"`
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !categoryKind(c, req.Kind) {
		return
	}
	cats, err := h.accounts.RemoveCategory(callerID(c), req.Kind, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "remove failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": req.Kind, "categories": cats})
}
