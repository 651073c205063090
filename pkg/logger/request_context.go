package logger

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// attrLogger is implemented by errors that know how to describe themselves
// as structured log attributes.
type attrLogger interface {
	LogAttrs() []slog.Attr
}

// RequestContext accumulates structured facts about one request and emits
// them as a single log event when the request terminates. It is safe for
// concurrent use, but must not be shared across requests.
type RequestContext struct {
	mu       sync.Mutex
	logger   *slog.Logger
	start    time.Time
	keys     []string
	values   map[string]slog.Value
	finished bool
}

// NewRequestContext starts a fact bag for a request identified by requestID.
func NewRequestContext(l *slog.Logger, requestID string) *RequestContext {
	if l == nil {
		l = slog.Default()
	}
	rc := &RequestContext{
		logger: l,
		start:  time.Now(),
		values: make(map[string]slog.Value),
	}
	rc.Set("request_id", requestID)
	return rc
}

// Set records a fact, replacing any earlier value under the same key.
func (rc *RequestContext) Set(key string, value any) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.finished {
		return
	}
	if _, ok := rc.values[key]; !ok {
		rc.keys = append(rc.keys, key)
	}
	rc.values[key] = slog.AnyValue(value)
}

// Timing records a duration in milliseconds under "<name>_ms".
func (rc *RequestContext) Timing(name string, d time.Duration) {
	rc.Set(name+"_ms", d.Milliseconds())
}

// Get returns a previously recorded fact.
func (rc *RequestContext) Get(key string) (any, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	v, ok := rc.values[key]
	if !ok {
		return nil, false
	}
	return v.Any(), true
}

// Success flushes the context as a successful request. Only the first
// terminal call has any effect; it reports whether this call flushed.
func (rc *RequestContext) Success(attrs ...slog.Attr) bool {
	return rc.flush(slog.LevelInfo, "request completed", "success", attrs)
}

// Error flushes the context as a failed request.
func (rc *RequestContext) Error(err error, attrs ...slog.Attr) bool {
	if err != nil {
		var al attrLogger
		if errors.As(err, &al) {
			attrs = append(attrs, al.LogAttrs()...)
		}
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	return rc.flush(slog.LevelError, "request failed", "error", attrs)
}

func (rc *RequestContext) flush(level slog.Level, msg, outcome string, extra []slog.Attr) bool {
	rc.mu.Lock()
	if rc.finished {
		rc.mu.Unlock()
		return false
	}
	rc.finished = true
	attrs := make([]slog.Attr, 0, len(rc.keys)+len(extra)+2)
	for _, k := range rc.keys {
		attrs = append(attrs, slog.Attr{Key: k, Value: rc.values[k]})
	}
	rc.mu.Unlock()

	attrs = append(attrs, slog.String("outcome", outcome), slog.Int64("duration_ms", time.Since(rc.start).Milliseconds()))
	attrs = append(attrs, extra...)
	rc.logger.LogAttrs(context.Background(), level, msg, attrs...)
	return true
}
