package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/emberhill/storefront/pkg/logctx"
	"github.com/emberhill/storefront/pkg/tool"
)

// TraceMiddleware assigns every request a trace id, honoring a client-sent
// X-Request-ID so upstream proxies can correlate. The id is stored in
// gin.Context and in the request's context.Context.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Request-ID")
		if traceID == "" {
			traceID = tool.GenerateTraceID()
		}

		c.Set("traceID", traceID)
		c.Request = c.Request.WithContext(logctx.WithTraceID(c.Request.Context(), traceID))
		c.Next()
	}
}
