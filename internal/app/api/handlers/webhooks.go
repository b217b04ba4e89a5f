package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/emberhill/storefront/internal/app/service/webhooksub"
	"github.com/emberhill/storefront/internal/models"
	"github.com/emberhill/storefront/pkg/response"
)

type createWebhookRequest struct {
	URL       string                  `json:"url" binding:"required,url"`
	EventType models.WebhookEventType `json:"event_type" binding:"required"`
}

// @Summary      List webhook subscriptions
// @Tags         Webhooks
// @Produce      json
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/webhooks [get]
func ApiListWebhooks(svc *webhooksub.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := svc.List(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}

// @Summary      Create webhook subscription
// @Tags         Webhooks
// @Accept       json
// @Produce      json
// @Param        request body handlers.createWebhookRequest true "subscription data"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/webhooks [post]
func ApiCreateWebhook(svc *webhooksub.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createWebhookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		if !req.EventType.Valid() {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, "unknown event_type"))
			return
		}
		sub, err := svc.Create(c.Request.Context(), req.URL, req.EventType)
		if err != nil {
			if errors.Is(err, webhooksub.ErrDuplicateURL) {
				c.JSON(http.StatusConflict, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
				return
			}
			c.JSON(http.StatusInternalServerError, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(sub))
	}
}

// @Summary      Delete webhook subscription
// @Tags         Webhooks
// @Produce      json
// @Param        id  path  string  true  "subscription id"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/admin/webhooks/{id} [delete]
func ApiDeleteWebhook(svc *webhooksub.Service) gin.HandlerFunc {
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

func RegisterAdminWebhookRoutes(r gin.IRouter, svc *webhooksub.Service) {
	r.GET("/webhooks", ApiListWebhooks(svc))
	r.POST("/webhooks", ApiCreateWebhook(svc))
	r.DELETE("/webhooks/:id", ApiDeleteWebhook(svc))
}
