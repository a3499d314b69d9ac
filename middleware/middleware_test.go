package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sandwich-shop-api/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func protectedRouter(a *Auth, roles ...models.StaffRole) *gin.Engine {
	r := gin.New()
	r.GET("/secret", a.Required(), RoleRequired(roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"staff_id": GetStaffID(c), "role": GetRole(c)})
	})
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	a := NewAuth("test-secret", time.Hour)
	r := protectedRouter(a, models.RoleStaff, models.RoleAdmin)

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "garbage").Code)

	forged, err := NewAuth("other-secret", time.Hour).GenerateToken(&models.StaffUser{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, forged).Code)

	token, err := a.GenerateToken(&models.StaffUser{ID: 7, Email: "s@shop.test", Role: models.RoleStaff})
	require.NoError(t, err)
	w := get(r, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"staff_id":7,"role":"staff"}`, w.Body.String())
}

func TestExpiredToken(t *testing.T) {
	a := NewAuth("test-secret", time.Hour)
	a.ttl = -time.Minute
	token, err := a.GenerateToken(&models.StaffUser{ID: 1, Role: models.RoleStaff})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(protectedRouter(a, models.RoleStaff), token).Code)
}

func TestRoleRequired(t *testing.T) {
	a := NewAuth("test-secret", time.Hour)
	r := protectedRouter(a, models.RoleAdmin)

	token, err := a.GenerateToken(&models.StaffUser{ID: 2, Role: models.RoleStaff})
	require.NoError(t, err)
	w := get(r, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Required role(s): admin")
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(RequestLogger(log), CORS())
	r.GET("/missing", func(c *gin.Context) { c.JSON(http.StatusNotFound, gin.H{"error": "nope"}) })

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
	assert.Contains(t, buf.String(), `"level":"warning"`)

	req = httptest.NewRequest(http.MethodOptions, "/missing", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
}
