package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emberhill/storefront/internal/app/service/user"
	"github.com/emberhill/storefront/internal/models"
	"github.com/emberhill/storefront/pkg/response"
)

type updateProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

// @Summary      Current user profile
// @Tags         Users
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/users/me [get]
func ApiMe(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := svc.GetByID(c.Request.Context(), c.GetString("userID"))
		if err != nil {
			c.JSON(http.StatusNotFound, response.ErrorT[any](response.APIResponseCodeNotFound, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(u))
	}
}

// @Summary      Update current user profile
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        request body handlers.updateProfileRequest true "profile fields"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/users/me [put]
func ApiUpdateMe(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		u, err := svc.UpdateProfile(c.Request.Context(), c.GetString("userID"), req.Name)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(u))
	}
}

type listUsersResponse struct {
	Items []*models.User `json:"items"`
	Total int64          `json:"total"`
}

// @Summary      List users
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/users [get]
func ApiListUsers(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, _ := strconv.Atoi(c.DefaultQuery("from", "0"))
		size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
		items, total, err := svc.ListUsers(c.Request.Context(), from, size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(listUsersResponse{Items: items, Total: total}))
	}
}

func RegisterUserRoutes(r gin.IRouter, svc *user.Service) {
	r.GET("/users/me", ApiMe(svc))
	r.PUT("/users/me", ApiUpdateMe(svc))
}

func RegisterAdminUserRoutes(r gin.IRouter, svc *user.Service) {
	r.GET("/users", ApiListUsers(svc))
}
