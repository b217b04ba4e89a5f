package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emberhill/storefront/internal/app/service/address"
	"github.com/emberhill/storefront/internal/models"
	"github.com/emberhill/storefront/pkg/response"
)

type addressRequest struct {
	Line1      string `json:"line1" binding:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" binding:"required"`
	Region     string `json:"region"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country" binding:"required,len=2"`
	IsDefault  bool   `json:"is_default"`
}

func (r *addressRequest) apply(a *models.Address) {
	a.Line1 = r.Line1
	a.Line2 = r.Line2
	a.City = r.City
	a.Region = r.Region
	a.PostalCode = r.PostalCode
	a.Country = r.Country
	a.IsDefault = r.IsDefault
}

// @Summary      List addresses
// @Tags         Addresses
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/addresses [get]
func ApiListAddresses(svc *address.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := svc.List(c.Request.Context(), c.GetString("userID"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}

// @Summary      Create address
// @Tags         Addresses
// @Accept       json
// @Produce      json
// @Param        request body handlers.addressRequest true "address data"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/addresses [post]
func ApiCreateAddress(svc *address.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		a := &models.Address{UserID: c.GetString("userID")}
		req.apply(a)
		if err := svc.Create(c.Request.Context(), a); err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(a))
	}
}

// @Summary      Update address
// @Tags         Addresses
// @Accept       json
// @Produce      json
// @Param        id       path  string                  true  "address id"
// @Param        request  body  handlers.addressRequest true  "address data"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/addresses/{id} [put]
func ApiUpdateAddress(svc *address.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		a := &models.Address{ID: c.Param("id")}
		req.apply(a)
		if err := svc.Update(c.Request.Context(), c.GetString("userID"), a); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
				return
			}
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(a))
	}
}

// @Summary      Delete address
// @Tags         Addresses
// @Produce      json
// @Param        id  path  string  true  "address id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/addresses/{id} [delete]
func ApiDeleteAddress(svc *address.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
				return
			}
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

func RegisterAddressRoutes(r gin.IRouter, svc *address.Service) {
	r.GET("/addresses", ApiListAddresses(svc))
	r.POST("/addresses", ApiCreateAddress(svc))
	r.PUT("/addresses/:id", ApiUpdateAddress(svc))
	r.DELETE("/addresses/:id", ApiDeleteAddress(svc))
}
