package logger

import (
	"context"
	"time"

	ctxutil "github.com/gestio-app/gestio/pkg/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ContextLogBuilder is a fluent log builder that automatically attaches
// request metadata carried in the context (request id, client ip, module,
// function, user id) to every entry.
type ContextLogBuilder struct {
	ctx     context.Context
	level   zapcore.Level
	message string
	fields  []zap.Field
}

func newContextBuilder(ctx context.Context, level zapcore.Level, message string) *ContextLogBuilder {
	b := &ContextLogBuilder{
		ctx:     ctx,
		level:   level,
		message: message,
		fields:  make([]zap.Field, 0, 8),
	}
	b.extractContextFields()
	return b
}

// DebugWithContext starts a debug entry enriched from ctx.
func DebugWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return newContextBuilder(ctx, zapcore.DebugLevel, message)
}

// InfoWithContext starts an info entry enriched from ctx.
func InfoWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return newContextBuilder(ctx, zapcore.InfoLevel, message)
}

// WarnWithContext starts a warn entry enriched from ctx.
func WarnWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return newContextBuilder(ctx, zapcore.WarnLevel, message)
}

// ErrorWithContext starts an error entry enriched from ctx.
func ErrorWithContext(ctx context.Context, message string) *ContextLogBuilder {
	return newContextBuilder(ctx, zapcore.ErrorLevel, message)
}

func (b *ContextLogBuilder) extractContextFields() {
	if b.ctx == nil {
		return
	}

	if requestID := ctxutil.GetRequestID(b.ctx); requestID != "" {
		b.fields = append(b.fields, zap.String("request_id", requestID))
	}
	if clientIP := ctxutil.GetClientIP(b.ctx); clientIP != "" {
		b.fields = append(b.fields, zap.String("client_ip", clientIP))
	}
	if userAgent := ctxutil.GetUserAgent(b.ctx); userAgent != "" {
		b.fields = append(b.fields, zap.String("user_agent", userAgent))
	}
	if userID, ok := ctxutil.GetUserID(b.ctx); ok {
		b.fields = append(b.fields, zap.Uint("user_id", userID))
	}
	if module := ctxutil.GetModule(b.ctx); module != "" {
		b.fields = append(b.fields, zap.String("module", module))
	}
	if function := ctxutil.GetFunction(b.ctx); function != "" {
		b.fields = append(b.fields, zap.String("function", function))
	}
	if duration := ctxutil.GetDuration(b.ctx); duration > 0 {
		b.fields = append(b.fields, zap.Duration("elapsed", duration))
	}
}

func (b *ContextLogBuilder) String(key, value string) *ContextLogBuilder {
	b.fields = append(b.fields, zap.String(key, value))
	return b
}

func (b *ContextLogBuilder) Int(key string, value int) *ContextLogBuilder {
	b.fields = append(b.fields, zap.Int(key, value))
	return b
}

func (b *ContextLogBuilder) Int64(key string, value int64) *ContextLogBuilder {
	b.fields = append(b.fields, zap.Int64(key, value))
	return b
}

func (b *ContextLogBuilder) Uint(key string, value uint) *ContextLogBuilder {
	b.fields = append(b.fields, zap.Uint(key, value))
	return b
}

func (b *ContextLogBuilder) Bool(key string, value bool) *ContextLogBuilder {
	b.fields = append(b.fields, zap.Bool(key, value))
	return b
}

func (b *ContextLogBuilder) Time(key string, value time.Time) *ContextLogBuilder {
	b.fields = append(b.fields, zap.Time(key, value))
	return b
}

func (b *ContextLogBuilder) Duration(value time.Duration) *ContextLogBuilder {
	b.fields = append(b.fields, zap.Duration("duration", value))
	return b
}

func (b *ContextLogBuilder) Err(err error) *ContextLogBuilder {
	b.fields = append(b.fields, zap.Error(err))
	return b
}

// Log emits the entry at the builder's level.
func (b *ContextLogBuilder) Log() {
	if Logger == nil {
		return
	}
	if ce := Logger.Check(b.level, b.message); ce != nil {
		ce.Write(b.fields...)
	}
}
