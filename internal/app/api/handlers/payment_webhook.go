package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emberhill/storefront/internal/app/service/payment"
	"github.com/emberhill/storefront/internal/app/service/signature"
	"github.com/emberhill/storefront/pkg/logctx"
	"github.com/emberhill/storefront/pkg/response"
)

// @Summary      Payment webhook
// @Description  Receives Mercado Pago payment notifications. The raw body is covered by the x-signature HMAC together with the data.id query parameter.
// @Tags         Webhook
// @Accept       json
// @Produce      json
// @Param        x-signature   header  string  true   "ts=<ts>,v1=<hex>"
// @Param        x-request-id  header  string  false  "provider request id"
// @Param        data.id       query   string  true   "payment id"
// @Success      200  {object}  response.WebhookAck
// @Failure      400  {object}  response.WebhookAck
// @Router       /api/payments/webhook [post]
func ApiPaymentWebhook(verifier *signature.Verifier, rec *payment.Reconciler, baseLog *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logctx.FromGin(c, baseLog)

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, response.WebhookAck{Received: false, Error: "failed to read request body"})
			return
		}

		res := verifier.Verify(signature.Input{
			Body:            body,
			SignatureHeader: c.GetHeader("x-signature"),
			RequestID:       c.GetHeader("x-request-id"),
			DataID:          c.Query("data.id"),
		})
		if !res.Valid {
			log.Warnw("webhook_signature_rejected", "reason", res.Reason)
			c.JSON(http.StatusBadRequest, response.WebhookAck{Received: false, Error: res.Reason})
			return
		}

		out, err := rec.Process(c.Request.Context(), res.Notification)
		if err != nil {
			if errors.Is(err, payment.ErrPersist) {
				c.JSON(http.StatusInternalServerError, response.WebhookAck{Received: true, Error: err.Error()})
				return
			}
			// Non-200 would trigger provider retries against a failure that
			// is not idempotent; acknowledge and surface via logs instead.
			c.JSON(http.StatusOK, response.WebhookAck{Received: true, Error: err.Error()})
			return
		}

		c.JSON(http.StatusOK, response.WebhookAck{Received: true, Processed: out.Processed, Message: out.Message})

		// The acknowledgment is already on the wire; stock return failures
		// from here on are log-only.
		if out.StockReturn && out.Order != nil {
			rec.ReturnStock(c.Request.Context(), out.Order)
		}
	}
}

func RegisterPaymentWebhookRoutes(r gin.IRouter, verifier *signature.Verifier, rec *payment.Reconciler, log *zap.SugaredLogger) {
	r.POST("/webhook", ApiPaymentWebhook(verifier, rec, log))
}
