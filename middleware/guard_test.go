package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	dirauth "github.com/fgjtam/dirauth"
)

type staticDirectory struct {
	mu     sync.Mutex
	person dirauth.PersonRecord
}

func (d *staticDirectory) GetPersonByEmail(_ context.Context, email string) (dirauth.PersonRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if email != d.person.Email {
		return dirauth.PersonRecord{}, dirauth.ErrPersonNotFound
	}
	return d.person, nil
}

func (d *staticDirectory) GetPersonByID(_ context.Context, subjectID string) (dirauth.PersonRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if subjectID != d.person.ID {
		return dirauth.PersonRecord{}, dirauth.ErrPersonNotFound
	}
	return d.person, nil
}

func (d *staticDirectory) UpdatePasswordHash(_ context.Context, _, passwordHash string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.person.PasswordHash = passwordHash
	return nil
}

func (d *staticDirectory) UpdateEmail(_ context.Context, _, newEmail string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.person.Email = newEmail
	return nil
}

func (d *staticDirectory) EmailInUse(_ context.Context, email string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return email == d.person.Email, nil
}

func (d *staticDirectory) UpsertPreregistration(context.Context, string, string) (string, error) {
	return "prereg-1", nil
}

type capturingSender struct {
	mu   sync.Mutex
	body string
}

func (s *capturingSender) Send(_ context.Context, _, _, htmlBody string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.body = htmlBody
	return "msg-1", nil
}

func (s *capturingSender) lastBody() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.body
}

var codePattern = regexp.MustCompile(`<b>([0-9A-Z]{6})</b>`)

// newAuthenticatedSession builds an engine with a single person, sets a
// known secret through the reset flow, and logs in with the given
// fingerprint. Everything goes through the public API.
func newAuthenticatedSession(t *testing.T, ip, userAgent string) (*dirauth.Engine, string) {
	t.Helper()

	dir := &staticDirectory{person: dirauth.PersonRecord{
		ID:           "p1",
		FullName:     "Alice",
		Email:        "alice@example.com",
		PasswordHash: "placeholder",
	}}
	sender := &capturingSender{}

	cfg := dirauth.Config{
		SecretKey:     "guard-test-secret",
		PasswordReset: dirauth.PasswordResetConfig{CodeTTL: time.Hour},
		EmailChange:   dirauth.EmailChangeConfig{CodeTTL: time.Hour},
	}

	engine, err := dirauth.New().
		WithConfig(cfg).
		WithDirectory(dir).
		WithEmailSender(sender).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	ctx := dirauth.WithClientIP(context.Background(), ip)
	ctx = dirauth.WithUserAgent(ctx, userAgent)

	if err := engine.RequestPasswordReset(ctx, "alice@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset failed: %v", err)
	}
	m := codePattern.FindStringSubmatch(sender.lastBody())
	if m == nil {
		t.Fatalf("no code in mail body:\n%s", sender.lastBody())
	}
	if err := engine.ConfirmPasswordReset(ctx, m[1], "correct-horse"); err != nil {
		t.Fatalf("ConfirmPasswordReset failed: %v", err)
	}

	token, err := engine.Login(ctx, "alice@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	return engine, token
}

func guardedEcho(t *testing.T, engine *dirauth.Engine) http.Handler {
	t.Helper()
	return Guard(engine)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subjectID, ok := SubjectIDFromContext(r.Context())
		if !ok {
			t.Error("expected subject id in guarded handler context")
		}
		_, _ = w.Write([]byte(subjectID))
	}))
}

func TestGuardAcceptsLiveSession(t *testing.T) {
	// httptest requests carry RemoteAddr 192.0.2.1:1234.
	engine, token := newAuthenticatedSession(t, "192.0.2.1", "guard-agent")
	handler := guardedEcho(t, engine)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", "guard-agent")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "p1" {
		t.Fatalf("expected subject id echoed, got %q", rec.Body.String())
	}
}

func TestGuardRejectsMissingAndMalformedHeader(t *testing.T) {
	engine, _ := newAuthenticatedSession(t, "192.0.2.1", "guard-agent")
	handler := guardedEcho(t, engine)

	for _, header := range []string{"", "Bearer ", "Basic abc", "token-without-scheme"} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for header %q, got %d", header, rec.Code)
		}
	}
}

func TestGuardRejectsForeignFingerprint(t *testing.T) {
	engine, token := newAuthenticatedSession(t, "192.0.2.1", "guard-agent")
	handler := guardedEcho(t, engine)

	// Same token, different User-Agent.
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", "someone-else")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for foreign fingerprint, got %d", rec.Code)
	}
}
