package logging

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

const ModuleDB Module = "db"

// DBLogger routes GORM output through slog so queries carry the request_id
// and trace of the call that issued them.
type DBLogger struct {
	slowThreshold time.Duration
	level         gormlogger.LogLevel
}

var _ gormlogger.Interface = (*DBLogger)(nil)

func NewDBLogger(slowThreshold time.Duration, level string) *DBLogger {
	return &DBLogger{
		slowThreshold: slowThreshold,
		level:         GormLevel(level),
	}
}

// GormLevel maps a LOG_LEVEL value onto GORM's levels. Per-query logging is
// only enabled at debug.
func GormLevel(level string) gormlogger.LogLevel {
	switch ParseLevel(level) {
	case slog.LevelDebug:
		return gormlogger.Info
	case slog.LevelError:
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}

func (l *DBLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level

	return &clone
}

func (l *DBLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		slog.InfoContext(dbContext(ctx), fmt.Sprintf(msg, args...), slog.String("event", "db.log"))
	}
}

func (l *DBLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		slog.WarnContext(dbContext(ctx), fmt.Sprintf(msg, args...), slog.String("event", "db.log"))
	}
}

func (l *DBLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		slog.ErrorContext(dbContext(ctx), fmt.Sprintf(msg, args...), slog.String("event", "db.log"))
	}
}

func (l *DBLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	ctx = dbContext(ctx)

	switch {
	// a missing settings row is an expected lookup result, not a failure
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		sql, rows := fc()
		slog.ErrorContext(ctx, "query failed",
			slog.String("event", "db.query.fail"),
			slog.String("error", err.Error()),
			slog.Duration("duration", elapsed),
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.String("caller", utils.FileWithLineNum()),
		)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		slog.WarnContext(ctx, "slow query",
			slog.String("event", "db.query.slow"),
			slog.Duration("duration", elapsed),
			slog.Duration("threshold", l.slowThreshold),
			slog.String("sql", sql),
			slog.Int64("rows", rows),
			slog.String("caller", utils.FileWithLineNum()),
		)
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		slog.DebugContext(ctx, "query executed",
			slog.String("event", "db.query"),
			slog.Duration("duration", elapsed),
			slog.String("sql", sql),
			slog.Int64("rows", rows),
		)
	}
}

func dbContext(ctx context.Context) context.Context {
	if ModuleFromContext(ctx) != "" {
		return ctx
	}

	return WithModule(ctx, ModuleDB)
}
