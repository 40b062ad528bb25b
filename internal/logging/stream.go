package logging

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// LogEvent represents a structured log line published to the streaming hub.
type LogEvent struct {
	Sequence   uint64            `json:"seq"`
	Timestamp  time.Time         `json:"ts"`
	Level      string            `json:"level"`
	Message    string            `json:"msg"`
	Component  string            `json:"component,omitempty"`
	RunID      string            `json:"run_id,omitempty"`
	Entry      string            `json:"entry,omitempty"`
	EntryIndex int               `json:"entry_index,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
}

// StreamHub stores the most recent log events in a bounded buffer.
type StreamHub struct {
	mu       sync.Mutex
	capacity int
	buffer   []LogEvent
	nextSeq  uint64
}

// NewStreamHub constructs a bounded in-memory log buffer.
func NewStreamHub(capacity int) *StreamHub {
	if capacity <= 0 {
		capacity = 512
	}
	return &StreamHub{capacity: capacity}
}

// Publish appends a new log event to the hub.
func (h *StreamHub) Publish(evt LogEvent) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextSeq++
	evt.Sequence = h.nextSeq
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	if len(h.buffer) == h.capacity {
		copy(h.buffer, h.buffer[1:])
		h.buffer = h.buffer[:h.capacity-1]
	}
	h.buffer = append(h.buffer, evt)
}

// Tail returns the most recent limit events without blocking.
func (h *StreamHub) Tail(limit int) []LogEvent {
	if h == nil {
		return nil
	}
	if limit <= 0 || limit > h.capacity {
		limit = h.capacity
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	start := len(h.buffer) - limit
	if start < 0 {
		start = 0
	}
	out := make([]LogEvent, len(h.buffer)-start)
	copy(out, h.buffer[start:])
	return out
}

// NewHubHandler returns a handler that publishes records at or above level
// into hub. Combine it with TeeLogger to mirror an existing logger.
func NewHubHandler(hub *StreamHub, level slog.Level) slog.Handler {
	lvl := new(slog.LevelVar)
	lvl.Set(level)
	return &streamHandler{hub: hub, level: lvl}
}

// streamHandler publishes records into a hub and, when next is set, forwards
// them on.
type streamHandler struct {
	next   slog.Handler
	hub    *StreamHub
	level  *slog.LevelVar
	attrs  []slog.Attr
	groups []string
}

func newStreamHandler(next slog.Handler, hub *StreamHub) slog.Handler {
	if hub == nil {
		return next
	}
	return &streamHandler{next: next, hub: hub}
}

func (h *streamHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.next != nil {
		return h.next.Enabled(ctx, level)
	}
	return level >= h.level.Level()
}

func (h *streamHandler) Handle(ctx context.Context, record slog.Record) error {
	h.hub.Publish(eventFromRecord(record, h.groups, h.attrs))
	if h.next == nil {
		return nil
	}
	return h.next.Handle(ctx, record.Clone())
}

func (h *streamHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append(make([]slog.Attr, 0, len(h.attrs)+len(attrs)), h.attrs...), attrs...)
	if h.next != nil {
		clone.next = h.next.WithAttrs(attrs)
	}
	return &clone
}

func (h *streamHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.groups = appendPrefix(h.groups, name)
	if h.next != nil {
		clone.next = h.next.WithGroup(name)
	}
	return &clone
}

func eventFromRecord(record slog.Record, groups []string, preAttrs []slog.Attr) LogEvent {
	event := LogEvent{
		Timestamp: record.Time,
		Level:     levelLabel(record.Level),
		Message:   strings.TrimSpace(record.Message),
	}

	kvs := make([]kv, 0, len(preAttrs)+record.NumAttrs())
	flattenAttrs(&kvs, groups, preAttrs)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&kvs, groups, attr)
		return true
	})

	for _, field := range kvs {
		key := strings.TrimSpace(field.key)
		if key == "" {
			continue
		}
		switch key {
		case FieldComponent:
			event.Component = attrString(field.value)
		case FieldRunID:
			event.RunID = attrString(field.value)
		case FieldEntry:
			event.Entry = attrString(field.value)
		case FieldEntryIndex:
			if field.value.Kind() == slog.KindInt64 {
				event.EntryIndex = int(field.value.Int64())
			}
		default:
			if event.Fields == nil {
				event.Fields = make(map[string]string)
			}
			event.Fields[key] = attrString(field.value)
		}
	}
	return event
}
