package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"spendtrack/internal/models"
	"spendtrack/internal/services"
)

type ExpenseHandler struct {
	service *services.ExpenseService
}

func NewExpenseHandler(service *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

type expenseRequest struct {
	Title    string  `json:"title" binding:"required"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	Category string  `json:"category" binding:"required"`
	SpentAt  string  `json:"spent_at" binding:"required,datetime=2006-01-02"`
	Note     string  `json:"note"`
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	spentAt, _ := time.Parse("2006-01-02", req.SpentAt)

	e := &models.Expense{
		AccountID: callerID(c),
		Title:     req.Title,
		Amount:    req.Amount,
		Category:  req.Category,
		SpentAt:   spentAt,
		Note:      req.Note,
	}
	if err := h.service.Create(e); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create expense"})
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (h *ExpenseHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense ID"})
		return
	}
	e, err := h.service.GetForAccount(callerID(c), id)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "expense not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *ExpenseHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense ID"})
		return
	}
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	spentAt, _ := time.Parse("2006-01-02", req.SpentAt)

	e := &models.Expense{
		ID:        id,
		AccountID: callerID(c),
		Title:     req.Title,
		Amount:    req.Amount,
		Category:  req.Category,
		SpentAt:   spentAt,
		Note:      req.Note,
	}
	if err := h.service.Update(callerID(c), e); err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "expense not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, e)
}

func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense ID"})
		return
	}
	if err := h.service.Delete(callerID(c), id); err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "expense not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}

func (h *ExpenseHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	out, err := h.service.List(
		callerID(c),
		c.Query("category"), c.Query("from"), c.Query("to"),
		limit, offset,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	if out == nil {
		out = []models.Expense{}
	}
	c.JSON(http.StatusOK, out)
}
