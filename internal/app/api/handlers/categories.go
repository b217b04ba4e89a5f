package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emberhill/storefront/internal/app/service/category"
	"github.com/emberhill/storefront/internal/models"
	"github.com/emberhill/storefront/pkg/response"
)

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
}

// @Summary      List categories
// @Tags         Catalog
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/categories [get]
func ApiListCategories(svc *category.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cats, err := svc.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(cats))
	}
}

// @Summary      Get category
// @Tags         Catalog
// @Produce      json
// @Param        id  path  string  true  "category id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/categories/{id} [get]
func ApiGetCategory(svc *category.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cat, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(cat))
	}
}

// @Summary      Create category
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body handlers.categoryRequest true "category data"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/categories [post]
func ApiCreateCategory(svc *category.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		cat := &models.Category{Name: req.Name, Slug: req.Slug, Description: req.Description}
		if err := svc.Create(c.Request.Context(), cat); err != nil {
			if errors.Is(err, category.ErrDuplicateSlug) {
				c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(cat))
	}
}

// @Summary      Update category
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id       path  string                   true  "category id"
// @Param        request  body  handlers.categoryRequest true  "category data"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/categories/{id} [put]
func ApiUpdateCategory(svc *category.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cat, err := svc.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
			return
		}
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		cat.Name, cat.Slug, cat.Description = req.Name, req.Slug, req.Description
		if err := svc.Update(c.Request.Context(), cat); err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(cat))
	}
}

// @Summary      Delete category
// @Tags         Admin
// @Produce      json
// @Param        id  path  string  true  "category id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/categories/{id} [delete]
func ApiDeleteCategory(svc *category.Service) gin.HandlerFunc {
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

func RegisterCategoryRoutes(r gin.IRouter, svc *category.Service) {
	r.GET("/categories", ApiListCategories(svc))
	r.GET("/categories/:id", ApiGetCategory(svc))
}

func RegisterAdminCategoryRoutes(r gin.IRouter, svc *category.Service) {
	r.POST("/categories", ApiCreateCategory(svc))
	r.PUT("/categories/:id", ApiUpdateCategory(svc))
	r.DELETE("/categories/:id", ApiDeleteCategory(svc))
}
