package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floatlab/booking-api/internal/models"
	"github.com/floatlab/booking-api/internal/service"
)

const testSecret = "middleware-test-secret"

func newTestAuthService() *service.AuthService {
	return service.NewAuthService(nil, nil, nil, nil, service.AuthConfig{
		AccessTokenSecret: testSecret,
		AccessTokenExpiry: time.Hour,
	})
}

func signedToken(t *testing.T, userID string, role models.UserRole) string {
	t.Helper()
	claims := &models.JWTClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func runGuard(t *testing.T, guard gin.HandlerFunc, prepare func(c *gin.Context)) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/guarded", nil)
	c.Request = req
	if prepare != nil {
		prepare(c)
	}

	guard(c)
	return w, !c.IsAborted()
}

func TestJWTAcceptsValidBearerToken(t *testing.T) {
	authSvc := newTestAuthService()
	token := signedToken(t, "user-1", models.RoleClient)

	var stored *models.JWTClaims
	_, passed := runGuard(t, func(c *gin.Context) {
		JWT(authSvc)(c)
		if value, exists := c.Get(ContextUserKey); exists {
			stored = value.(*models.JWTClaims)
		}
	}, func(c *gin.Context) {
		c.Request.Header.Set("Authorization", "Bearer "+token)
	})

	require.True(t, passed)
	require.NotNil(t, stored)
	assert.Equal(t, "user-1", stored.UserID)
	assert.Equal(t, models.RoleClient, stored.Role)
}

func TestJWTRejectsMissingAndMalformedHeaders(t *testing.T) {
	authSvc := newTestAuthService()

	cases := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"wrong scheme", "Basic abc123"},
		{"scheme only", "Bearer "},
		{"tampered token", "Bearer not.a.token"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, passed := runGuard(t, JWT(authSvc), func(c *gin.Context) {
				if tc.header != "" {
					c.Request.Header.Set("Authorization", tc.header)
				}
			})
			assert.False(t, passed)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequireRolesAllowsAdmin(t *testing.T) {
	_, passed := runGuard(t, RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.Set(ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})
	})
	assert.True(t, passed)
}

func TestRequireRolesBlocksClient(t *testing.T) {
	w, passed := runGuard(t, RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.Set(ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleClient})
	})
	assert.False(t, passed)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRolesWithoutClaims(t *testing.T) {
	w, passed := runGuard(t, RequireRoles(models.RoleAdmin), nil)
	assert.False(t, passed)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSelfOrRolesAllowsOwnRecord(t *testing.T) {
	_, passed := runGuard(t, SelfOrRoles(models.RoleAdmin), func(c *gin.Context) {
		c.Params = gin.Params{{Key: "id", Value: "user-1"}}
		c.Set(ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleClient})
	})
	assert.True(t, passed)
}

func TestSelfOrRolesBlocksForeignRecord(t *testing.T) {
	w, passed := runGuard(t, SelfOrRoles(models.RoleAdmin), func(c *gin.Context) {
		c.Params = gin.Params{{Key: "id", Value: "user-2"}}
		c.Set(ContextUserKey, &models.JWTClaims{UserID: "user-1", Role: models.RoleClient})
	})
	assert.False(t, passed)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSelfOrRolesAdminReadsAnyRecord(t *testing.T) {
	_, passed := runGuard(t, SelfOrRoles(models.RoleAdmin), func(c *gin.Context) {
		c.Params = gin.Params{{Key: "id", Value: "user-2"}}
		c.Set(ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})
	})
	assert.True(t, passed)
}
