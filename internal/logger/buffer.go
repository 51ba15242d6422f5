package logger

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"
)

// Entry is one captured log record
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Component string    `json:"component,omitempty"`
	Message   string    `json:"message"`
}

// Buffer is a thread-safe ring buffer of recent log entries
type Buffer struct {
	mu      sync.RWMutex
	entries []Entry
	cap     int
}

// NewBuffer creates a new log buffer with the given capacity
func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{
		entries: make([]Entry, 0, capacity),
		cap:     capacity,
	}
}

// Add appends an entry, dropping the oldest when full
func (b *Buffer) Add(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.entries) >= b.cap {
		copy(b.entries, b.entries[1:])
		b.entries[len(b.entries)-1] = e
	} else {
		b.entries = append(b.entries, e)
	}
}

// Entries returns all entries oldest first, optionally filtered by level
func (b *Buffer) Entries(levels []string) []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if len(levels) == 0 {
		result := make([]Entry, len(b.entries))
		copy(result, b.entries)
		return result
	}

	levelSet := make(map[string]bool)
	for _, l := range levels {
		levelSet[strings.ToLower(l)] = true
	}

	result := make([]Entry, 0)
	for _, e := range b.entries {
		if levelSet[e.Level] {
			result = append(result, e)
		}
	}
	return result
}

// Clear removes all entries
func (b *Buffer) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = b.entries[:0]
}

// captureHandler copies every record it handles into a Buffer before
// passing it on.
type captureHandler struct {
	next  slog.Handler
	buf   *Buffer
	attrs []slog.Attr
}

func (h *captureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *captureHandler) Handle(ctx context.Context, r slog.Record) error {
	e := Entry{
		Timestamp: r.Time,
		Level:     strings.ToLower(r.Level.String()),
		Message:   r.Message,
	}

	var sb strings.Builder
	sb.WriteString(r.Message)
	appendAttr := func(a slog.Attr) bool {
		if a.Key == "component" {
			e.Component = a.Value.String()
			return true
		}
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value.Any())
		return true
	}
	for _, a := range h.attrs {
		appendAttr(a)
	}
	r.Attrs(appendAttr)
	e.Message = sb.String()

	h.buf.Add(e)
	return h.next.Handle(ctx, r)
}

func (h *captureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &captureHandler{
		next:  h.next.WithAttrs(attrs),
		buf:   h.buf,
		attrs: append(slices.Clip(h.attrs), attrs...),
	}
}

func (h *captureHandler) WithGroup(name string) slog.Handler {
	return &captureHandler{next: h.next.WithGroup(name), buf: h.buf, attrs: h.attrs}
}
