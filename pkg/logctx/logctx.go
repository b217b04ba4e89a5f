// Package logctx carries the request-scoped logger and its correlation ids
// through context.Context with typed keys.
package logctx

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ctxKey int

const (
	keyLogger ctxKey = iota
	keyTraceID
	keyUserID
)

// GinLoggerKey is the gin.Context key the request logger middleware stores
// the enriched logger under.
const GinLoggerKey = "logger"

func WithLogger(ctx context.Context, lg *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, keyLogger, lg)
}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, keyTraceID, traceID)
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, keyUserID, userID)
}

func TraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	tid, _ := ctx.Value(keyTraceID).(string)
	return tid
}

// FromGin prefers the logger attached by the request logger middleware and
// falls back to context-based enrichment.
func FromGin(c *gin.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if c == nil {
		return base
	}
	if lg, ok := c.Value(GinLoggerKey).(*zap.SugaredLogger); ok && lg != nil {
		return lg
	}
	return FromCtx(c.Request.Context(), base)
}

// FromCtx returns the context's logger when one was attached, otherwise
// enriches base with whatever correlation ids the context carries.
func FromCtx(ctx context.Context, base *zap.SugaredLogger) *zap.SugaredLogger {
	if ctx == nil {
		return base
	}
	if lg, ok := ctx.Value(keyLogger).(*zap.SugaredLogger); ok && lg != nil {
		return lg
	}
	var fields []any
	if tid := TraceID(ctx); tid != "" {
		fields = append(fields, "trace_id", tid)
	}
	if uid, ok := ctx.Value(keyUserID).(string); ok && uid != "" {
		fields = append(fields, "user_id", uid)
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
