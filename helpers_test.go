package dirauth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"sync"
	"testing"

	"github.com/fgjtam/dirauth/internal"
)

type mockDirectory struct {
	mu          sync.Mutex
	people      map[string]PersonRecord
	byEmail     map[string]string
	preregByID  map[string]string
	preregEmail map[string]string
	failWith    error
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{
		people:      map[string]PersonRecord{},
		byEmail:     map[string]string{},
		preregByID:  map[string]string{},
		preregEmail: map[string]string{},
	}
}

func (d *mockDirectory) add(p PersonRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.people[p.ID] = p
	d.byEmail[p.Email] = p.ID
}

func (d *mockDirectory) GetPersonByEmail(_ context.Context, email string) (PersonRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failWith != nil {
		return PersonRecord{}, d.failWith
	}
	id, ok := d.byEmail[email]
	if !ok {
		return PersonRecord{}, ErrPersonNotFound
	}
	return d.people[id], nil
}

func (d *mockDirectory) GetPersonByID(_ context.Context, subjectID string) (PersonRecord, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failWith != nil {
		return PersonRecord{}, d.failWith
	}
	p, ok := d.people[subjectID]
	if !ok {
		return PersonRecord{}, ErrPersonNotFound
	}
	return p, nil
}

func (d *mockDirectory) UpdatePasswordHash(_ context.Context, subjectID, passwordHash string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failWith != nil {
		return d.failWith
	}
	p, ok := d.people[subjectID]
	if !ok {
		return ErrPersonNotFound
	}
	p.PasswordHash = passwordHash
	d.people[subjectID] = p
	return nil
}

func (d *mockDirectory) UpdateEmail(_ context.Context, subjectID, newEmail string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failWith != nil {
		return d.failWith
	}
	p, ok := d.people[subjectID]
	if !ok {
		return ErrPersonNotFound
	}
	delete(d.byEmail, p.Email)
	p.Email = newEmail
	d.people[subjectID] = p
	d.byEmail[newEmail] = subjectID
	return nil
}

func (d *mockDirectory) EmailInUse(_ context.Context, email string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failWith != nil {
		return false, d.failWith
	}
	if _, ok := d.byEmail[email]; ok {
		return true, nil
	}
	_, ok := d.preregEmail[email]
	return ok, nil
}

func (d *mockDirectory) UpsertPreregistration(_ context.Context, email, passwordHash string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failWith != nil {
		return "", d.failWith
	}
	id, ok := d.preregEmail[email]
	if !ok {
		id = internal.NewPreregisterID()
		d.preregEmail[email] = id
	}
	d.preregByID[id] = passwordHash
	return id, nil
}

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

type mockSender struct {
	mu   sync.Mutex
	sent []sentEmail
	fail error
}

func (s *mockSender) Send(_ context.Context, destination, subject, htmlBody string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return "", s.fail
	}
	s.sent = append(s.sent, sentEmail{To: destination, Subject: subject, Body: htmlBody})
	return fmt.Sprintf("msg-%d", len(s.sent)), nil
}

func (s *mockSender) last(t *testing.T) sentEmail {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sent) == 0 {
		t.Fatal("expected at least one sent email")
	}
	return s.sent[len(s.sent)-1]
}

func (s *mockSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

var (
	codeBodyPattern = regexp.MustCompile(`<b>([0-9A-Z]{6})</b>`)
	linkBodyPattern = regexp.MustCompile(`href="([^"]+)"`)
)

func codeFromBody(t *testing.T, body string) string {
	t.Helper()
	m := codeBodyPattern.FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("no verification code found in body:\n%s", body)
	}
	return m[1]
}

func linkFromBody(t *testing.T, body string) string {
	t.Helper()
	m := linkBodyPattern.FindStringSubmatch(body)
	if m == nil {
		t.Fatalf("no link found in body:\n%s", body)
	}
	return html.UnescapeString(m[1])
}

func newTestEngine(t *testing.T, dir *mockDirectory, sender *mockSender, mutate func(*Config)) *Engine {
	t.Helper()
	return newTestEngineWithKey(t, dir, sender, "test-service-secret-key", mutate)
}

func newTestEngineWithKey(t *testing.T, dir *mockDirectory, sender *mockSender, secretKey string, mutate ...func(*Config)) *Engine {
	t.Helper()

	cfg := defaultConfig()
	cfg.SecretKey = secretKey
	cfg.Audit.Enabled = false
	for _, m := range mutate {
		if m != nil {
			m(&cfg)
		}
	}

	engine, err := New().
		WithConfig(cfg).
		WithDirectory(dir).
		WithEmailSender(sender).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

func addPerson(t *testing.T, engine *Engine, dir *mockDirectory, id, name, email, secret string) {
	t.Helper()
	dir.add(PersonRecord{
		ID:           id,
		FullName:     name,
		Email:        email,
		PasswordHash: engine.hasher.Hash(secret),
	})
}

func clientCtx(ip, userAgent string) context.Context {
	ctx := WithClientIP(context.Background(), ip)
	return WithUserAgent(ctx, userAgent)
}

var errBackendDown = errors.New("backend down")
