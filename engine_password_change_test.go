package dirauth

import (
	"errors"
	"testing"
)

func TestChangePasswordFlow(t *testing.T) {
	dir := newMockDirectory()
	sender := &mockSender{}
	engine := newTestEngine(t, dir, sender, nil)
	addPerson(t, engine, dir, "p1", "Alice Gómez", "alice@fgjtam.gob.mx", "old-secret")

	ctx := clientCtx("10.0.0.1", "agent-a")
	token, err := engine.Login(ctx, "alice@fgjtam.gob.mx", "old-secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := engine.ChangePassword(ctx, "p1", "old-secret", "new-secret"); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	if _, err := engine.Login(ctx, "alice@fgjtam.gob.mx", "old-secret"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected old secret rejected, got %v", err)
	}
	if _, err := engine.Login(ctx, "alice@fgjtam.gob.mx", "new-secret"); err != nil {
		t.Fatalf("login with new secret failed: %v", err)
	}

	// Unlike a reset, a self-service change keeps existing sessions alive.
	if err := engine.ValidateSession(ctx, token); err != nil {
		t.Fatalf("expected existing session to survive password change, got %v", err)
	}
}

func TestChangePasswordWrongOldSecret(t *testing.T) {
	dir := newMockDirectory()
	sender := &mockSender{}
	engine := newTestEngine(t, dir, sender, nil)
	addPerson(t, engine, dir, "p1", "Alice Gómez", "alice@fgjtam.gob.mx", "old-secret")

	ctx := clientCtx("10.0.0.1", "agent-a")
	if err := engine.ChangePassword(ctx, "p1", "not-the-old-one", "new-secret"); !errors.Is(err, ErrOldPasswordMismatch) {
		t.Fatalf("expected ErrOldPasswordMismatch, got %v", err)
	}

	// Credential unchanged.
	if _, err := engine.Login(ctx, "alice@fgjtam.gob.mx", "old-secret"); err != nil {
		t.Fatalf("login with original secret failed: %v", err)
	}

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricPasswordChangeInvalidOld] != 1 {
		t.Fatalf("expected 1 invalid-old counter, got %d", snap.Counters[MetricPasswordChangeInvalidOld])
	}
}

func TestChangePasswordUnknownSubject(t *testing.T) {
	dir := newMockDirectory()
	sender := &mockSender{}
	engine := newTestEngine(t, dir, sender, nil)

	err := engine.ChangePassword(clientCtx("10.0.0.1", "agent-a"), "ghost", "a", "b")
	if !errors.Is(err, ErrPersonNotFound) {
		t.Fatalf("expected ErrPersonNotFound, got %v", err)
	}
}
