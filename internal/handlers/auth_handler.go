package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"spendtrack/internal/middleware"
	"spendtrack/internal/services"
)

type AuthHandler struct {
	auth     *services.AuthService
	accounts *services.AccountService
	tokenTTL time.Duration
}

func NewAuthHandler(auth *services.AuthService, accounts *services.AccountService, tokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, accounts: accounts, tokenTTL: tokenTTL}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Mobile   string `json:"mobile" binding:"required,len=10,numeric"`
	Password string `json:"password" binding:"required,min=6"`
}

// codeError maps OTP ledger failures to their fixed statuses.
func codeError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, services.ErrTooManyAttempts):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts, request a new code"})
	case errors.Is(err, services.ErrCodeExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "code expired, request a new one"})
	case errors.Is(err, services.ErrCodeInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid code"})
	case errors.Is(err, services.ErrCodeNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "no pending verification for this email"})
	default:
		return false
	}
	return true
}

// @Summary      Request registration
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Router       /auth/register-request [post]
func (h *AuthHandler) RegisterRequest(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.auth.RequestRegistration(req.Name, req.Email, req.Mobile, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
	case errors.Is(err, services.ErrIdentityTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "email or mobile already registered"})
	case errors.Is(err, services.ErrDispatchFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send verification code"})
	default:
		log.Printf("[auth][register] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
	}
}

func (h *AuthHandler) ResendOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.auth.Resend(req.Email)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
	case errors.Is(err, services.ErrCodeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no pending verification for this email"})
	case errors.Is(err, services.ErrDispatchFailed):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send verification code"})
	default:
		log.Printf("[auth][resend] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "resend failed"})
	}
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		OTP   string `json:"otp" binding:"required,len=6,numeric"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	acc, err := h.auth.VerifyRegistration(req.Email, req.OTP)
	if err != nil {
		if codeError(c, err) {
			return
		}
		if errors.Is(err, services.ErrIdentityTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email or mobile already registered"})
			return
		}
		log.Printf("[auth][verify] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account verified", "user": acc.Public()})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Identifier string `json:"identifier" binding:"required"`
		Password   string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	acc, err := h.auth.Login(req.Identifier, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	case errors.Is(err, services.ErrNotVerified):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "account not verified"})
		return
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	default:
		log.Printf("[auth][login] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}

	token, err := middleware.NewSessionToken(acc.ID, acc.Name, acc.Role, acc.Email, h.tokenTTL)
	if err != nil {
		log.Printf("[auth][login] sign token for id=%d: %v", acc.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":       token,
		"permissions": acc.Permissions,
		"user": gin.H{
			"id":     acc.ID,
			"name":   acc.Name,
			"email":  acc.Email,
			"mobile": acc.Mobile,
			"role":   acc.Role,
		},
	})
}

// RequestReset answers identically for known and unknown emails.
func (h *AuthHandler) RequestReset(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.RequestReset(req.Email); err != nil {
		log.Printf("[auth][request-reset] %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the email is registered, a code has been sent"})
}

func (h *AuthHandler) ConfirmReset(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		OTP         string `json:"otp" binding:"required,len=6,numeric"`
		NewPassword string `json:"newPassword" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.ConfirmReset(req.Email, req.OTP, req.NewPassword); err != nil {
		if codeError(c, err) {
			return
		}
		log.Printf("[auth][confirm-reset] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reset failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.auth.ChangePassword(callerID(c), req.CurrentPassword, req.NewPassword)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "incorrect current password"})
	case errors.Is(err, services.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
	default:
		log.Printf("[auth][change-password] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "password change failed"})
	}
}

// VerifyToken confirms the bearer token still resolves to an account.
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	acc, err := h.accounts.GetAccountByID(callerID(c))
	if err != nil {
		log.Printf("[auth][verify-token] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "verification failed"})
		return
	}
	if acc == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account no longer exists"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "user": acc.Public()})
}
