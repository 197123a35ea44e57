package log

import (
	"context"
	"log/slog"
	"net/http"
)

// StructuredLogger emits the handful of records every request or mutation
// produces, with a fixed set of fields.
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

func (sl *StructuredLogger) LogHTTPStart(ctx context.Context, r *http.Request, clientIP string) {
	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent"), r.Header.Get("Referer")).
		WithClientIP(clientIP)
	sl.logger.DebugContext(ctx, "HTTP request started", fields.ToSlice()...)
}

// LogHTTPEnd logs at warn for 4xx and error for 5xx responses.
func (sl *StructuredLogger) LogHTTPEnd(ctx context.Context, r *http.Request, statusCode int, durationMs int64, clientIP string) {
	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, "", "").
		WithHTTPResponse(statusCode, durationMs, statusCode < 400).
		WithClientIP(clientIP)
	sl.logger.Log(ctx, levelForStatus(statusCode), "HTTP request completed", fields.ToSlice()...)
}

func levelForStatus(code int) slog.Level {
	switch {
	case code >= 500:
		return slog.LevelError
	case code >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func (sl *StructuredLogger) LogMemberRegistered(ctx context.Context, id, name, category string, fee int64) {
	fields := NewFields().WithMember(id, name, category).WithOperation(OpCreate)
	fields[FieldAmount] = fee
	sl.logger.InfoContext(ctx, "Member registered", fields.ToSlice()...)
}

func (sl *StructuredLogger) LogDonationRecorded(ctx context.Context, id string, amount int64, memberID string) {
	fields := NewFields().WithDonation(id, amount, memberID).WithOperation(OpCreate)
	sl.logger.InfoContext(ctx, "Donation recorded", fields.ToSlice()...)
}

// LogError logs err with the operation that failed. component is added
// only when it differs from the logger's own.
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, component, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	fields = fields.WithError(err).WithOperation(operation)
	if component != "" && component != sl.logger.Component() {
		fields = fields.WithComponent(component)
	}
	sl.logger.ErrorContext(ctx, msg, fields.ToSlice()...)
}
