package dirauth

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type AuditEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	SubjectID string            `json:"subject_id,omitempty"`
	SessionID string            `json:"session_id,omitempty"`
	IP        string            `json:"ip,omitempty"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, AuditEvent) {}

type ChannelSink struct {
	events chan AuditEvent
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan AuditEvent, buffer),
	}
}

func (s *ChannelSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

func (s *JSONWriterSink) Emit(ctx context.Context, event AuditEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}

// RedisStreamSink appends audit events to a Redis stream so an external
// consumer can tail the trail without sharing process memory with the
// engine. Entries carry a single "event" field holding the JSON encoding.
type RedisStreamSink struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedisStreamSink describes the new redis stream sink operation and its observable behavior.
//
// NewRedisStreamSink may return an error when input validation, dependency calls, or security checks fail.
// NewRedisStreamSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedisStreamSink(client *redis.Client, stream string) *RedisStreamSink {
	if stream == "" {
		stream = "dirauth:audit"
	}
	return &RedisStreamSink{
		client: client,
		stream: stream,
		maxLen: 10_000,
	}
}

// WithMaxLen caps the stream's approximate length. Zero or negative keeps
// the stream unbounded.
func (s *RedisStreamSink) WithMaxLen(maxLen int64) *RedisStreamSink {
	s.maxLen = maxLen
	return s
}

func (s *RedisStreamSink) Emit(ctx context.Context, event AuditEvent) {
	if s == nil || s.client == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{"event": data},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}

	_ = s.client.XAdd(ctx, args).Err()
}
