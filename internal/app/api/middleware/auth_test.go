package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/emberhill/storefront/internal/app/service/user"
	"github.com/emberhill/storefront/internal/models"
)

func authTestRouter(t *testing.T, tokens *user.TokenIssuer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthRequired(tokens), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/admin", AuthRequired(tokens), AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doAuthRequest(r *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired_MissingAndGarbageTokens(t *testing.T) {
	tokens := user.NewTokenIssuer("secret", time.Hour)
	r := authTestRouter(t, tokens)

	require.Equal(t, http.StatusUnauthorized, doAuthRequest(r, "/protected", "").Code)
	require.Equal(t, http.StatusUnauthorized, doAuthRequest(r, "/protected", "Bearer ").Code)
	require.Equal(t, http.StatusUnauthorized, doAuthRequest(r, "/protected", "Bearer not-a-jwt").Code)
	require.Equal(t, http.StatusUnauthorized, doAuthRequest(r, "/protected", "Basic dXNlcjpwYXNz").Code)
}

func TestAuthRequired_ValidTokenPasses(t *testing.T) {
	tokens := user.NewTokenIssuer("secret", time.Hour)
	r := authTestRouter(t, tokens)

	token, err := tokens.Mint(&models.User{ID: "user-1", Role: models.UserRoleCustomer})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, doAuthRequest(r, "/protected", "Bearer "+token).Code)
}

func TestAuthRequired_RejectsTokenSignedWithOtherSecret(t *testing.T) {
	r := authTestRouter(t, user.NewTokenIssuer("secret", time.Hour))

	other := user.NewTokenIssuer("other-secret", time.Hour)
	token, err := other.Mint(&models.User{ID: "user-1", Role: models.UserRoleCustomer})
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, doAuthRequest(r, "/protected", "Bearer "+token).Code)
}

func TestAdminRequired_GatesByRole(t *testing.T) {
	tokens := user.NewTokenIssuer("secret", time.Hour)
	r := authTestRouter(t, tokens)

	customer, err := tokens.Mint(&models.User{ID: "user-1", Role: models.UserRoleCustomer})
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, doAuthRequest(r, "/admin", "Bearer "+customer).Code)

	admin, err := tokens.Mint(&models.User{ID: "user-2", Role: models.UserRoleAdmin})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, doAuthRequest(r, "/admin", "Bearer "+admin).Code)
}
