// Package gormlog adapts the application's zap logger to GORM's logger
// interface, so SQL lines carry the same trace_id/user_id fields as the rest
// of the request's logs.
package gormlog

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"

	"github.com/emberhill/storefront/pkg/logctx"
)

const defaultSlowThreshold = 500 * time.Millisecond

type Logger struct {
	base          *zap.SugaredLogger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

func New(base *zap.SugaredLogger) *Logger {
	return &Logger{
		base:          base,
		level:         gormlogger.Info,
		slowThreshold: defaultSlowThreshold,
	}
}

func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	out := *l
	out.level = level
	return &out
}

func (l *Logger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		logctx.FromCtx(ctx, l.base).Infow(msg, "args", data)
	}
}

func (l *Logger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		logctx.FromCtx(ctx, l.base).Warnw(msg, "args", data)
	}
}

func (l *Logger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		logctx.FromCtx(ctx, l.base).Errorw(msg, "args", data)
	}
}

func (l *Logger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level == gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	lg := logctx.FromCtx(ctx, l.base)
	fields := []any{
		"rows", rows,
		"elapsed_ms", elapsed.Milliseconds(),
		"caller", repoRelative(utils.FileWithLineNum()),
		"sql", sql,
	}
	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gormlogger.ErrRecordNotFound):
		lg.Errorw("sql_error", append(fields, "err", err)...)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		lg.Warnw("sql_slow", fields...)
	case l.level >= gormlogger.Info:
		lg.Infow("sql", fields...)
	}
}

// repoRelative trims a build-machine absolute path down to the part starting
// at a repo-root directory, falling back to the last three segments.
func repoRelative(caller string) string {
	path, line := caller, ""
	if i := strings.LastIndex(caller, ":"); i >= 0 {
		path, line = caller[:i], caller[i:]
	}
	path = filepath.ToSlash(path)
	for _, root := range []string{"/internal/", "/pkg/", "/cmd/"} {
		if i := strings.Index(path, root); i >= 0 {
			return path[i+1:] + line
		}
	}
	if parts := strings.Split(path, "/"); len(parts) > 3 {
		return strings.Join(parts[len(parts)-3:], "/") + line
	}
	return strings.TrimPrefix(path, "/") + line
}
