package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spendtrack/internal/models"
)

// AccountGetter is the slice of the account service the guards need.
type AccountGetter interface {
	GetAccountByID(id int) (*models.Account, error)
}

func RequireRoles(allowed ...string) gin.HandlerFunc {
	allowedSet := map[string]struct{}{}
	for _, r := range allowed {
		allowedSet[r] = struct{}{}
	}
	return func(c *gin.Context) {
		v, exists := c.Get("role")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no role in context"})
			return
		}
		role, _ := v.(string)
		if _, ok := allowedSet[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// RequirePermission loads the account on every request so flag edits
// take effect immediately, even while a 24h token is still live.
func RequirePermission(accounts AccountGetter, flag string) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("account_id")
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no account in context"})
			return
		}
		id, _ := v.(int)
		acc, err := accounts.GetAccountByID(id)
		if err != nil || acc == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "account no longer exists"})
			return
		}
		if !acc.Permissions.Has(flag) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
