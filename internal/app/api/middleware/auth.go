package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/emberhill/storefront/internal/app/service/user"
	"github.com/emberhill/storefront/internal/models"
	"github.com/emberhill/storefront/pkg/logctx"
	"github.com/emberhill/storefront/pkg/response"
)

// AuthRequired validates the Bearer token and stores user id and role in
// gin.Context (keys "userID", "userRole") and the request context.
func AuthRequired(tokens *user.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorT[any](response.APIResponseCodeUnauthorized, "missing bearer token"))
			return
		}

		claims, err := tokens.Validate(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				response.ErrorT[any](response.APIResponseCodeUnauthorized, "invalid token"))
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userRole", claims.Role)
		c.Request = c.Request.WithContext(logctx.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// AdminRequired gates admin routes; must run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("userRole") != string(models.UserRoleAdmin) {
			c.AbortWithStatusJSON(http.StatusForbidden,
				response.ErrorT[any](response.APIResponseCodeForbidden, "admin role required"))
			return
		}
		c.Next()
	}
}
