package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendtrack/internal/authz"
	"spendtrack/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware()}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := c.Get("account_id")
		c.JSON(http.StatusOK, gin.H{"account_id": id})
	})
	r.GET("/ping", handlers...)
	return r
}

func doGet(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	token, err := NewSessionToken(7, "A", "user", "a@x.com", time.Hour)
	require.NoError(t, err)

	w := doGet(protectedRouter(), token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"account_id":7`)
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	w := doGet(protectedRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	r := protectedRouter()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doGet(r, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	token, err := NewSessionToken(7, "A", "user", "a@x.com", -time.Minute)
	require.NoError(t, err)

	w := doGet(protectedRouter(), token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoles(t *testing.T) {
	r := protectedRouter(RequireRoles("manager", "admin"))

	userToken, err := NewSessionToken(1, "U", "user", "u@x.com", time.Hour)
	require.NoError(t, err)
	w := doGet(r, userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	managerToken, err := NewSessionToken(2, "M", "manager", "m@x.com", time.Hour)
	require.NoError(t, err)
	w = doGet(r, managerToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

type stubAccountGetter struct {
	acc *models.Account
	err error
}

func (s *stubAccountGetter) GetAccountByID(int) (*models.Account, error) {
	return s.acc, s.err
}

func TestRequirePermission(t *testing.T) {
	token, err := NewSessionToken(7, "A", "user", "a@x.com", time.Hour)
	require.NoError(t, err)

	acc := &models.Account{ID: 7, Permissions: models.Permissions{CanAdd: true}}
	getter := &stubAccountGetter{acc: acc}

	r := protectedRouter(RequirePermission(getter, authz.PermAdd))
	w := doGet(r, token)
	assert.Equal(t, http.StatusOK, w.Code)

	// flag flipped off applies on the very next request
	acc.Permissions.CanAdd = false
	w = doGet(r, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequirePermissionAccountGone(t *testing.T) {
	token, err := NewSessionToken(7, "A", "user", "a@x.com", time.Hour)
	require.NoError(t, err)

	r := protectedRouter(RequirePermission(&stubAccountGetter{}, authz.PermAdd))
	w := doGet(r, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r = protectedRouter(RequirePermission(&stubAccountGetter{err: errors.New("db down")}, authz.PermAdd))
	w = doGet(r, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
