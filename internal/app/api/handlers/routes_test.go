package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func routeSet(r *gin.Engine) map[string]bool {
	set := make(map[string]bool)
	for _, rt := range r.Routes() {
		set[rt.Method+" "+rt.Path] = true
	}
	return set
}

func TestRegisterRoutes_PublicSurface(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterHealthRoutes(r)
	RegisterAuthRoutes(r.Group("/api/v1"), nil)
	RegisterProductRoutes(r.Group("/api/v1"), nil)
	RegisterCategoryRoutes(r.Group("/api/v1"), nil)
	RegisterPaymentWebhookRoutes(r.Group("/api/payments"), nil, nil, nil)

	routes := routeSet(r)
	for _, want := range []string{
		"GET /healthz",
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"GET /api/v1/products",
		"GET /api/v1/products/:id",
		"GET /api/v1/categories",
		"POST /api/payments/webhook",
	} {
		require.True(t, routes[want], "missing route %s", want)
	}
}

func TestRegisterRoutes_AuthenticatedSurface(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	apiV1 := r.Group("/api/v1")
	RegisterUserRoutes(apiV1, nil)
	RegisterCartRoutes(apiV1, nil)
	RegisterAddressRoutes(apiV1, nil)
	RegisterOrderRoutes(apiV1, nil)

	admin := apiV1.Group("/admin")
	RegisterAdminUserRoutes(admin, nil)
	RegisterAdminProductRoutes(admin, nil, nil)
	RegisterAdminCategoryRoutes(admin, nil)
	RegisterAdminOrderRoutes(admin, nil)
	RegisterAdminWebhookRoutes(admin, nil)

	routes := routeSet(r)
	for _, want := range []string{
		"GET /api/v1/users/me",
		"GET /api/v1/cart",
		"PUT /api/v1/cart/items",
		"DELETE /api/v1/cart",
		"GET /api/v1/addresses",
		"PUT /api/v1/addresses/:id",
		"GET /api/v1/orders/:id",
		"GET /api/v1/admin/users",
		"POST /api/v1/admin/products",
		"POST /api/v1/admin/products/:id/image",
		"POST /api/v1/admin/orders/scan",
		"GET /api/v1/admin/webhooks",
		"DELETE /api/v1/admin/webhooks/:id",
	} {
		require.True(t, routes[want], "missing route %s", want)
	}
}
