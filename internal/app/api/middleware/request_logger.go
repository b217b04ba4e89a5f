package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emberhill/storefront/pkg/logctx"
)

// RequestLoggerMiddleware derives a request-scoped logger carrying the trace
// id and attaches it to gin.Context and the request context, so services
// reached from this request log with correlation fields for free.
func RequestLoggerMiddleware(base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := logctx.TraceID(c.Request.Context())
		reqLogger := base
		if traceID != "" {
			reqLogger = base.With("trace_id", traceID)
			c.Writer.Header().Set("X-Request-ID", traceID)
		}

		c.Set(logctx.GinLoggerKey, reqLogger)
		c.Request = c.Request.WithContext(logctx.WithLogger(c.Request.Context(), reqLogger))
		c.Next()
	}
}
