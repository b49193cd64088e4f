package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"spendtrack/internal/models"
	"spendtrack/internal/services"
)

type AdminHandler struct {
	accounts *services.AccountService
}

func NewAdminHandler(accounts *services.AccountService) *AdminHandler {
	return &AdminHandler{accounts: accounts}
}

func (h *AdminHandler) ListAccounts(c *gin.Context) {
	limit, offset := pagination(c)
	accs, err := h.accounts.ListAccounts(limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}
	out := make([]*models.Account, 0, len(accs))
	for _, a := range accs {
		out = append(out, a.Public())
	}
	c.JSON(http.StatusOK, out)
}

// updateRoleRequest keeps manager_id as raw JSON so that an absent field
// and an explicit null stay distinguishable: null detaches the member
// from their manager, absence leaves the link alone.
type updateRoleRequest struct {
	Role        *string             `json:"role"`
	ManagerID   json.RawMessage     `json:"manager_id"`
	Permissions *models.Permissions `json:"permissions"`
}

func (r *updateRoleRequest) managerUpdate() (managerID *int, detach bool, err error) {
	if len(r.ManagerID) == 0 {
		return nil, false, nil
	}
	if bytes.Equal(bytes.TrimSpace(r.ManagerID), []byte("null")) {
		return nil, true, nil
	}
	var id int
	if err := json.Unmarshal(r.ManagerID, &id); err != nil {
		return nil, false, err
	}
	return &id, false, nil
}

func (h *AdminHandler) UpdateRole(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account ID"})
		return
	}
	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	managerID, detach, err := req.managerUpdate()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "manager_id must be a number or null"})
		return
	}

	if err := h.accounts.UpdateRole(id, req.Role, managerID, detach, req.Permissions); err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}
		log.Printf("[admin][update-role] id=%d: %v", id, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account updated"})
}

func (h *AdminHandler) DeleteAccount(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account ID"})
		return
	}
	if err := h.accounts.DeleteAccountCascade(id); err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}
		log.Printf("[admin][delete] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}
