package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"spendtrack/internal/models"
	"spendtrack/internal/services"
)

type TeamHandler struct {
	accounts *services.AccountService
	expenses *services.ExpenseService
}

func NewTeamHandler(accounts *services.AccountService, expenses *services.ExpenseService) *TeamHandler {
	return &TeamHandler{accounts: accounts, expenses: expenses}
}

type addMemberRequest struct {
	Name        string              `json:"name" binding:"required"`
	Email       string              `json:"email" binding:"required,email"`
	Mobile      string              `json:"mobile" binding:"required,len=10,numeric"`
	Password    string              `json:"password" binding:"required,min=6"`
	Permissions *models.Permissions `json:"permissions"`
}

func (h *TeamHandler) AddMember(c *gin.Context) {
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	acc, err := h.accounts.CreateTeamMember(callerID(c), req.Name, req.Email, req.Mobile, req.Password, req.Permissions)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, acc.Public())
	case errors.Is(err, services.ErrIdentityTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "email or mobile already registered"})
	default:
		log.Printf("[team][add-member] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add member"})
	}
}

func (h *TeamHandler) ListMembers(c *gin.Context) {
	members, err := h.accounts.ListTeam(callerID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	out := make([]*models.Account, 0, len(members))
	for _, m := range members {
		out = append(out, m.Public())
	}
	c.JSON(http.StatusOK, out)
}

func (h *TeamHandler) memberID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid member ID"})
		return 0, false
	}
	return id, true
}

func (h *TeamHandler) MemberExpenses(c *gin.Context) {
	id, ok := h.memberID(c)
	if !ok {
		return
	}
	if _, err := h.accounts.GetTeamMember(callerID(c), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
		return
	}
	limit, offset := pagination(c)
	out, err := h.expenses.List(id, c.Query("category"), c.Query("from"), c.Query("to"), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	if out == nil {
		out = []models.Expense{}
	}
	c.JSON(http.StatusOK, out)
}

func (h *TeamHandler) UpdateMemberPermissions(c *gin.Context) {
	id, ok := h.memberID(c)
	if !ok {
		return
	}
	var perms models.Permissions
	if err := c.ShouldBindJSON(&perms); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.accounts.UpdateMemberPermissions(callerID(c), id, perms); err != nil {
		if errors.Is(err, services.ErrNotTeamMember) {
			c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Permissions updated"})
}

func (h *TeamHandler) DeleteMember(c *gin.Context) {
	id, ok := h.memberID(c)
	if !ok {
		return
	}
	if err := h.accounts.DeleteTeamMember(callerID(c), id); err != nil {
		if errors.Is(err, services.ErrNotTeamMember) {
			c.JSON(http.StatusNotFound, gin.H{"error": "member not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member deleted"})
}
