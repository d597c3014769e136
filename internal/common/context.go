package common

import (
	"context"
	"time"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyBatchID  contextKey = "batch_id"
	ContextKeyDocument contextKey = "document"
)

// WithBatchID adds a batch ID to the context
func WithBatchID(ctx context.Context, batchID string) context.Context {
	return context.WithValue(ctx, ContextKeyBatchID, batchID)
}

// BatchIDFromContext extracts the batch ID from context
func BatchIDFromContext(ctx context.Context) string {
	if batchID, ok := ctx.Value(ContextKeyBatchID).(string); ok {
		return batchID
	}
	return ""
}

// WithDocument adds the document filename being processed to the context
func WithDocument(ctx context.Context, filename string) context.Context {
	return context.WithValue(ctx, ContextKeyDocument, filename)
}

// DocumentFromContext extracts the document filename from context
func DocumentFromContext(ctx context.Context) string {
	if name, ok := ctx.Value(ContextKeyDocument).(string); ok {
		return name
	}
	return ""
}

// LogAttrs returns the correlation attributes stored in ctx, for slog calls.
func LogAttrs(ctx context.Context) []any {
	var attrs []any
	if id := BatchIDFromContext(ctx); id != "" {
		attrs = append(attrs, "batch_id", id)
	}
	if doc := DocumentFromContext(ctx); doc != "" {
		attrs = append(attrs, "document", doc)
	}
	return attrs
}

// WithTimeout creates a context with the specified timeout; a non-positive
// timeout returns a cancelable context without deadline.
func WithTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
