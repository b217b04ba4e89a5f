package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emberhill/storefront/internal/app/service/order"
	"github.com/emberhill/storefront/internal/models"
	"github.com/emberhill/storefront/pkg/response"
)

// @Summary      Get order
// @Tags         Orders
// @Produce      json
// @Param        id  path  string  true  "order id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/orders/{id} [get]
func ApiGetOrder(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := svc.FindByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, "order not found"))
				return
			}
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		if o.UserID != c.GetString("userID") && c.GetString("userRole") != string(models.UserRoleAdmin) {
			c.JSON(http.StatusForbidden, response.ErrorT[any](response.APIResponseCodeForbidden, "not your order"))
			return
		}
		c.JSON(http.StatusOK, response.OKT(o))
	}
}

// @Summary      Scan orders
// @Tags         Orders
// @Accept       json
// @Produce      json
// @Param        request body order.ScanOrdersRequest true "scan filters"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/orders/scan [post]
func ApiScanOrders(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req order.ScanOrdersRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		resp, err := svc.Scan(c.Request.Context(), &req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(resp))
	}
}

func RegisterOrderRoutes(r gin.IRouter, svc *order.Service) {
	r.GET("/orders/:id", ApiGetOrder(svc))
}

func RegisterAdminOrderRoutes(r gin.IRouter, svc *order.Service) {
	r.POST("/orders/scan", ApiScanOrders(svc))
}
