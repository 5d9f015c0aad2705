package logger

import (
	"context"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type contextKey string

const (
	traceIDKey   contextKey = "trace_id"
	requestIDKey contextKey = "request_id"
)

var (
	mu          sync.RWMutex
	log         = zap.NewNop()
	serviceName = "loan-case-tracker"
)

// Init builds the global JSON logger at the given level.
func Init(level string) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(parseLevel(level))
	config.Encoding = "json"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.LevelKey = "log_level"
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.TimeKey = "timestamp"
	config.OutputPaths = []string{"stdout"}
	config.EncoderConfig.StacktraceKey = ""
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	built, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		return
	}
	SetLogger(built)
}

// SetLogger replaces the global logger. Tests use it with an observer core.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

// SetServiceName sets the service_name field attached to context-aware lines.
func SetServiceName(name string) {
	if name == "" {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	serviceName = name
}

func current() (*zap.Logger, string) {
	mu.RLock()
	defer mu.RUnlock()
	return log, serviceName
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zap.DebugLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// WithTraceID returns a context carrying an explicit trace id, used when no
// span is active.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// GetTraceID returns the active span's trace id, falling back to one set with WithTraceID.
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		return sc.TraceID().String()
	}
	if v, ok := ctx.Value(traceIDKey).(string); ok {
		return v
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func contextFields(ctx context.Context, service string, fields []zap.Field) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+3)
	out = append(out, fields...)
	if ctx == nil {
		return out
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		out = append(out, zap.String("request_id", requestID))
	}
	if traceID := GetTraceID(ctx); traceID != "" {
		out = append(out, zap.String("trace_id", traceID))
	}
	return append(out, zap.String("service_name", service))
}

// CONTEXT-AWARE LOGGING //

func CtxInfo(ctx context.Context, msg string, fields ...zap.Field) {
	l, service := current()
	l.Info(msg, contextFields(ctx, service, fields)...)
}

func CtxError(ctx context.Context, msg string, err error, fields ...zap.Field) {
	l, service := current()
	l.Error(msg, contextFields(ctx, service, append(fields, zap.Error(err)))...)
}

func CtxDebug(ctx context.Context, msg string, fields ...zap.Field) {
	l, service := current()
	l.Debug(msg, contextFields(ctx, service, fields)...)
}

func CtxWarn(ctx context.Context, msg string, fields ...zap.Field) {
	l, service := current()
	l.Warn(msg, contextFields(ctx, service, fields)...)
}

// Non-context variants for startup code.

func Info(msg string, fields ...zap.Field) {
	l, _ := current()
	l.Info(msg, fields...)
}

func Error(msg string, err error, fields ...zap.Field) {
	l, _ := current()
	l.Error(msg, append(fields, zap.Error(err))...)
}

// Sync flushes buffered entries.
func Sync() {
	l, _ := current()
	_ = l.Sync()
}
