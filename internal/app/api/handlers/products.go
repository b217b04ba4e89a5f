package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emberhill/storefront/internal/app/service/product"
	"github.com/emberhill/storefront/internal/models"
	cfgpkg "github.com/emberhill/storefront/pkg/config"
	"github.com/emberhill/storefront/pkg/response"
	"github.com/emberhill/storefront/pkg/types"
)

type productRequest struct {
	Name        string  `json:"name" binding:"required"`
	Slug        string  `json:"slug" binding:"required"`
	Description string  `json:"description"`
	Price       int64   `json:"price" binding:"required,gt=0"`
	Currency    string  `json:"currency" binding:"required"`
	Stock       int64   `json:"stock" binding:"gte=0"`
	CategoryID  *string `json:"category_id"`
}

func (r *productRequest) apply(p *models.Product) {
	p.Name = r.Name
	p.Slug = r.Slug
	p.Description = r.Description
	p.Price = r.Price
	p.Currency = r.Currency
	p.Stock = r.Stock
	p.CategoryID = r.CategoryID
}

// @Summary      List products
// @Tags         Catalog
// @Produce      json
// @Param        from      query  int     false  "offset"
// @Param        size      query  int     false  "page size"
// @Param        category  query  string  false  "category id filter"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/products [get]
func ApiListProducts(svc *product.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, _ := strconv.Atoi(c.DefaultQuery("from", "0"))
		size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

		req := &product.ListRequest{From: from, Size: size, SortBy: "created_at"}
		if cat := c.Query("category"); cat != "" {
			req.Filters = append(req.Filters, &types.CommonFilter{
				Field:    "category_id",
				Operator: types.CommonFilterOperatorEq,
				Values:   []any{cat},
			})
		}

		res, err := svc.List(c.Request.Context(), req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Get product
// @Tags         Catalog
// @Produce      json
// @Param        id  path  string  true  "product id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/products/{id} [get]
func ApiGetProduct(svc *product.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(p))
	}
}

// @Summary      Create product
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body handlers.productRequest true "product data"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/products [post]
func ApiCreateProduct(svc *product.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		p := &models.Product{}
		req.apply(p)
		if err := svc.Create(c.Request.Context(), p); err != nil {
			if errors.Is(err, product.ErrDuplicateSlug) {
				c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(p))
	}
}

// @Summary      Update product
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id       path  string                  true  "product id"
// @Param        request  body  handlers.productRequest true  "product data"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/products/{id} [put]
func ApiUpdateProduct(svc *product.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
			return
		}
		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		req.apply(p)
		if err := svc.Update(c.Request.Context(), p); err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(p))
	}
}

// @Summary      Delete product
// @Tags         Admin
// @Produce      json
// @Param        id  path  string  true  "product id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/products/{id} [delete]
func ApiDeleteProduct(svc *product.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
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

var allowedImageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true}

// @Summary      Upload product image
// @Tags         Admin
// @Accept       multipart/form-data
// @Produce      json
// @Param        id     path      string  true  "product id"
// @Param        image  formData  file    true  "image file"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/products/{id}/image [post]
func ApiUploadProductImage(svc *product.Service, cfg *cfgpkg.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if _, err := svc.GetByID(c.Request.Context(), id); err != nil {
			c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
			return
		}

		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "missing image file"))
			return
		}
		ext := strings.ToLower(filepath.Ext(file.Filename))
		if !allowedImageExts[ext] {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, fmt.Sprintf("unsupported image type %s", ext)))
			return
		}

		dst := filepath.Join(cfg.Uploads.Dir, id+ext)
		if err := c.SaveUploadedFile(file, dst); err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		if err := svc.SetImagePath(c.Request.Context(), id, dst); err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(map[string]string{"image_path": dst}))
	}
}

func RegisterProductRoutes(r gin.IRouter, svc *product.Service) {
	r.GET("/products", ApiListProducts(svc))
	r.GET("/products/:id", ApiGetProduct(svc))
}

func RegisterAdminProductRoutes(r gin.IRouter, svc *product.Service, cfg *cfgpkg.Config) {
	r.POST("/products", ApiCreateProduct(svc))
	r.PUT("/products/:id", ApiUpdateProduct(svc))
	r.DELETE("/products/:id", ApiDeleteProduct(svc))
	r.POST("/products/:id/image", ApiUploadProductImage(svc, cfg))
}
