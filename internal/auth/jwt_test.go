package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rental-portal/internal/auth"
	"rental-portal/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testRouter(m *auth.Manager, roles ...models.Role) *gin.Engine {
	r := gin.New()
	group := r.Group("/", m.RequireAuth())
	if len(roles) > 0 {
		group.Use(auth.RequireRole(roles...))
	}
	group.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId":  c.GetString(auth.CtxUserID),
			"loginId": c.GetString(auth.CtxLoginID),
			"role":    c.GetString(auth.CtxRole),
		})
	})
	return r
}

func get(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTokenRoundTrip(t *testing.T) {
	m := auth.NewManager("secret", time.Hour, "rental-portal-test")
	user := &models.User{ID: "u-1", LoginID: "KO-0001", Role: models.RoleAdmin}

	token, err := m.GenerateToken(user)
	require.NoError(t, err)

	w := get(testRouter(m), token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"loginId":"KO-0001"`)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)
}

func TestRequireAuthRejectsBadTokens(t *testing.T) {
	m := auth.NewManager("secret", time.Hour, "rental-portal-test")
	r := testRouter(m)

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "garbage").Code)

	// Token signed with a different secret.
	other := auth.NewManager("other-secret", time.Hour, "rental-portal-test")
	token, err := other.GenerateToken(&models.User{ID: "u-1", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, token).Code)
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	m := auth.NewManager("secret", -time.Minute, "rental-portal-test")
	token, err := m.GenerateToken(&models.User{ID: "u-1", Role: models.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(testRouter(m), token).Code)
}

func TestRequireRole(t *testing.T) {
	m := auth.NewManager("secret", time.Hour, "rental-portal-test")
	r := testRouter(m, models.RoleSuperAdmin)

	adminToken, err := m.GenerateToken(&models.User{ID: "u-1", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, get(r, adminToken).Code)

	superToken, err := m.GenerateToken(&models.User{ID: "u-2", Role: models.RoleSuperAdmin})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, get(r, superToken).Code)
}
