package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emberhill/storefront/internal/app/service/cart"
	"github.com/emberhill/storefront/pkg/response"
)

type setCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int64  `json:"quantity"`
}

// @Summary      Get cart
// @Tags         Cart
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/cart [get]
func ApiGetCart(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svc.Get(c.Request.Context(), c.GetString("userID"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Set cart item quantity
// @Description  Quantity zero removes the item.
// @Tags         Cart
// @Accept       json
// @Produce      json
// @Param        request body handlers.setCartItemRequest true "item"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/cart/items [put]
func ApiSetCartItem(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req setCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		out, err := svc.SetItem(c.Request.Context(), c.GetString("userID"), req.ProductID, req.Quantity)
		if err != nil {
			if errors.Is(err, cart.ErrQuantityNegative) {
				c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(out))
	}
}

// @Summary      Clear cart
// @Tags         Cart
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/cart [delete]
func ApiClearCart(svc *cart.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Clear(c.Request.Context(), c.GetString("userID")); err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterCartRoutes(r gin.IRouter, svc *cart.Service) {
	r.GET("/cart", ApiGetCart(svc))
	r.PUT("/cart/items", ApiSetCartItem(svc))
	r.DELETE("/cart", ApiClearCart(svc))
}
