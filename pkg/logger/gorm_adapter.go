/*
Package logger 提供 GORM 到 Zap 的日志适配。

SQL 日志带上请求 ID 和调用者身份；带版本条件的 UPDATE 未命中任何行时
单独记录，便于排查乐观锁冲突。
*/
package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storefront/domain/identity"
	"storefront/infrastructure/persistence"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

type GormLoggerConfig struct {
	SlowThreshold time.Duration
	// repositories translate ErrRecordNotFound into domain not-found errors
	IgnoreRecordNotFoundError bool
	// LogVersionMisses 记录 "version = ?" 条件未命中的 UPDATE
	LogVersionMisses bool
}

func DefaultGormLoggerConfig() *GormLoggerConfig {
	return &GormLoggerConfig{
		SlowThreshold:             200 * time.Millisecond,
		IgnoreRecordNotFoundError: true,
		LogVersionMisses:          true,
	}
}

// GormLoggerAdapter implements gorm's logger.Interface on top of the global zap logger.
type GormLoggerAdapter struct {
	level  gormlogger.LogLevel
	base   *zap.Logger
	config GormLoggerConfig
}

func NewGormLoggerAdapter(level gormlogger.LogLevel) *GormLoggerAdapter {
	return NewGormLoggerAdapterWithConfig(level, nil)
}

func NewGormLoggerAdapterWithConfig(level gormlogger.LogLevel, config *GormLoggerConfig) *GormLoggerAdapter {
	if config == nil {
		config = DefaultGormLoggerConfig()
	}
	return &GormLoggerAdapter{level: level, base: Get().Named("gorm"), config: *config}
}

func (l *GormLoggerAdapter) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

// forContext 请求 ID 与调用者身份（若有）
func (l *GormLoggerAdapter) forContext(ctx context.Context) *zap.Logger {
	log := l.base
	if log == nil {
		log = zap.NewNop()
	}
	fields := make([]zap.Field, 0, 3)
	if requestID := persistence.RequestIDFromContext(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if id, err := identity.FromContext(ctx); err == nil {
		fields = append(fields, zap.String("subject_id", id.SubjectID), zap.String("role", string(id.Role)))
	}
	return log.With(fields...)
}

func (l *GormLoggerAdapter) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.forContext(ctx).Info(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLoggerAdapter) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.forContext(ctx).Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLoggerAdapter) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.forContext(ctx).Error(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLoggerAdapter) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	sql, rows := fc()
	elapsed := time.Since(begin)
	fields := []zap.Field{
		zap.String("statement", statementKind(sql)),
		zap.String("sql", sql),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
	}

	switch {
	case err != nil:
		if l.level < gormlogger.Error || (l.config.IgnoreRecordNotFoundError && errors.Is(err, gormlogger.ErrRecordNotFound)) {
			return
		}
		l.forContext(ctx).Error("Database operation failed", append(fields, zap.Error(err))...)
	case l.config.LogVersionMisses && rows == 0 && isVersionedUpdate(sql) && l.level >= gormlogger.Warn:
		l.forContext(ctx).Warn("Versioned update matched no rows", fields...)
	case l.config.SlowThreshold > 0 && elapsed > l.config.SlowThreshold && l.level >= gormlogger.Warn:
		l.forContext(ctx).Warn("Slow SQL query", append(fields, zap.Duration("threshold", l.config.SlowThreshold))...)
	case l.level >= gormlogger.Info:
		l.forContext(ctx).Debug("SQL query executed", fields...)
	}
}

func statementKind(sql string) string {
	sql = strings.TrimSpace(sql)
	if i := strings.IndexByte(sql, ' '); i > 0 {
		sql = sql[:i]
	}
	return strings.ToLower(sql)
}

func isVersionedUpdate(sql string) bool {
	return statementKind(sql) == "update" && strings.Contains(strings.ToLower(sql), "version =")
}

// ParseGormLevel maps the database.log_level setting onto GORM's levels.
func ParseGormLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "debug", "info":
		return gormlogger.Info
	case "error":
		return gormlogger.Error
	case "silent":
		return gormlogger.Silent
	default:
		return gormlogger.Warn
	}
}
