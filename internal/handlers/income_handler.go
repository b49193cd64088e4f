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

type IncomeHandler struct {
	service *services.IncomeService
}

func NewIncomeHandler(service *services.IncomeService) *IncomeHandler {
	return &IncomeHandler{service: service}
}

type incomeRequest struct {
	Title      string  `json:"title" binding:"required"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
	Category   string  `json:"category" binding:"required"`
	ReceivedAt string  `json:"received_at" binding:"required,datetime=2006-01-02"`
	Note       string  `json:"note"`
}

func (h *IncomeHandler) Create(c *gin.Context) {
	var req incomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	receivedAt, _ := time.Parse("2006-01-02", req.ReceivedAt)

	in := &models.Income{
		AccountID:  callerID(c),
		Title:      req.Title,
		Amount:     req.Amount,
		Category:   req.Category,
		ReceivedAt: receivedAt,
		Note:       req.Note,
	}
	if err := h.service.Create(in); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create income"})
		return
	}
	c.JSON(http.StatusCreated, in)
}

func (h *IncomeHandler) GetByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid income ID"})
		return
	}
	in, err := h.service.GetForAccount(callerID(c), id)
	if err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "income not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	c.JSON(http.StatusOK, in)
}

func (h *IncomeHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid income ID"})
		return
	}
	var req incomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	receivedAt, _ := time.Parse("2006-01-02", req.ReceivedAt)

	in := &models.Income{
		ID:         id,
		AccountID:  callerID(c),
		Title:      req.Title,
		Amount:     req.Amount,
		Category:   req.Category,
		ReceivedAt: receivedAt,
		Note:       req.Note,
	}
	if err := h.service.Update(callerID(c), in); err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "income not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, in)
}

func (h *IncomeHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid income ID"})
		return
	}
	if err := h.service.Delete(callerID(c), id); err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "income not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Income deleted"})
}

func (h *IncomeHandler) List(c *gin.Context) {
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
		out = []models.Income{}
	}
	c.JSON(http.StatusOK, out)
}
