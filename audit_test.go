package dirauth

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func drainEvents(t *testing.T, sink *ChannelSink, want int) []AuditEvent {
	t.Helper()

	var events []AuditEvent
	timeout := time.After(2 * time.Second)
	for len(events) < want {
		select {
		case ev := <-sink.Events():
			events = append(events, ev)
		case <-timeout:
			t.Fatalf("timed out waiting for audit events, got %d of %d", len(events), want)
		}
	}
	return events
}

func TestAuditTrailRecordsLoginOutcomes(t *testing.T) {
	dir := newMockDirectory()
	sender := &mockSender{}
	sink := NewChannelSink(16)

	cfg := defaultConfig()
	cfg.SecretKey = "test-service-secret-key"
	engine, err := New().
		WithConfig(cfg).
		WithDirectory(dir).
		WithEmailSender(sender).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	defer engine.Close()

	addPerson(t, engine, dir, "p1", "Alice Gómez", "alice@fgjtam.gob.mx", "secret")

	ctx := clientCtx("10.0.0.1", "agent-a")
	if _, err := engine.Login(ctx, "alice@fgjtam.gob.mx", "wrong"); err == nil {
		t.Fatal("expected login failure")
	}
	if _, err := engine.Login(ctx, "alice@fgjtam.gob.mx", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	events := drainEvents(t, sink, 2)

	if events[0].EventType != auditEventLoginFailure {
		t.Fatalf("expected login_failure first, got %q", events[0].EventType)
	}
	if events[0].Success {
		t.Fatal("expected failure event to carry Success=false")
	}
	if events[0].Error != string(auditErrInvalidCredentials) {
		t.Fatalf("expected invalid_credentials error code, got %q", events[0].Error)
	}
	if events[0].IP != "10.0.0.1" {
		t.Fatalf("expected client IP on event, got %q", events[0].IP)
	}

	if events[1].EventType != auditEventLoginSuccess {
		t.Fatalf("expected login_success second, got %q", events[1].EventType)
	}
	if events[1].SubjectID != "p1" {
		t.Fatalf("expected subject on success event, got %q", events[1].SubjectID)
	}
}

func TestJSONWriterSinkWritesOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{EventType: "login_success", SubjectID: "p1", Success: true})
	sink.Emit(context.Background(), AuditEvent{EventType: "logout_session", Success: true})

	scanner := bufio.NewScanner(&buf)
	var lines int
	for scanner.Scan() {
		lines++
		var ev AuditEvent
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", lines, err)
		}
	}
	if lines != 2 {
		t.Fatalf("expected 2 lines, got %d", lines)
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	block := make(chan struct{})
	sink := blockingSink{release: block}

	d := newAuditDispatcher(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}, sink)

	// First event occupies the worker, second fills the buffer, third drops.
	for i := 0; i < 3; i++ {
		d.Emit(context.Background(), AuditEvent{EventType: "login_failure"})
	}

	deadline := time.After(2 * time.Second)
	for d.Dropped() == 0 {
		select {
		case <-deadline:
			t.Fatal("expected at least one dropped event")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	close(block)
	d.Close()
}

type blockingSink struct {
	release chan struct{}
}

func (s blockingSink) Emit(context.Context, AuditEvent) {
	<-s.release
}

func TestRedisStreamSinkAppendsEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	sink := NewRedisStreamSink(client, "dirauth:audit:test")
	ctx := context.Background()

	sink.Emit(ctx, AuditEvent{EventType: "login_success", SubjectID: "p1", Success: true})
	sink.Emit(ctx, AuditEvent{EventType: "password_reset_request", SubjectID: "p1", Success: true})

	entries, err := client.XRange(ctx, "dirauth:audit:test", "-", "+").Result()
	if err != nil {
		t.Fatalf("XRange failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 stream entries, got %d", len(entries))
	}

	raw, ok := entries[0].Values["event"].(string)
	if !ok {
		t.Fatalf("expected event field, got %#v", entries[0].Values)
	}
	var ev AuditEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		t.Fatalf("stream entry is not valid JSON: %v", err)
	}
	if ev.EventType != "login_success" || ev.SubjectID != "p1" {
		t.Fatalf("unexpected decoded event: %+v", ev)
	}
}

func TestRedisStreamSinkAsEngineSink(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	dir := newMockDirectory()
	sender := &mockSender{}

	cfg := defaultConfig()
	cfg.SecretKey = "test-service-secret-key"
	engine, err := New().
		WithConfig(cfg).
		WithDirectory(dir).
		WithEmailSender(sender).
		WithAuditSink(NewRedisStreamSink(client, "dirauth:audit:test")).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	addPerson(t, engine, dir, "p1", "Alice Gómez", "alice@fgjtam.gob.mx", "secret")
	if _, err := engine.Login(clientCtx("10.0.0.1", "agent-a"), "alice@fgjtam.gob.mx", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	// Close drains the dispatcher into the stream.
	engine.Close()

	length, err := client.XLen(context.Background(), "dirauth:audit:test").Result()
	if err != nil {
		t.Fatalf("XLen failed: %v", err)
	}
	if length == 0 {
		t.Fatal("expected audit events in the stream after Close")
	}
}
