package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emberhill/storefront/internal/app/service/user"
	"github.com/emberhill/storefront/internal/models"
	"github.com/emberhill/storefront/pkg/response"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// @Summary      Register
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body handlers.registerRequest true "registration data"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/auth/register [post]
func ApiRegister(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		u, err := svc.Register(c.Request.Context(), req.Email, req.Password, req.Name)
		if err != nil {
			if errors.Is(err, user.ErrEmailTaken) {
				c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(u))
	}
}

// @Summary      Login
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body handlers.loginRequest true "credentials"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/auth/login [post]
func ApiLogin(svc *user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		u, token, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, user.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, response.ErrorT[any](response.APIResponseCodeUnauthorized, err.Error()))
				return
			}
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(loginResponse{Token: token, User: u}))
	}
}

func RegisterAuthRoutes(r gin.IRouter, svc *user.Service) {
	r.POST("/auth/register", ApiRegister(svc))
	r.POST("/auth/login", ApiLogin(svc))
}
