package dirauth

import (
	"sync"
	"time"

	"github.com/fgjtam/dirauth/internal"
)

type codeRecord[P any] struct {
	subjectID string
	code      string
	payload   P
	expiresAt time.Time
}

// codeStore keeps at most one live verification code per subject. Issuing a
// new code for a subject silently replaces the previous one, so the latest
// request always wins and older codes stop validating immediately.
//
// The payload carries flow-specific data (such as the pending new email)
// that must match at confirmation time.
type codeStore[P any] struct {
	mu        sync.Mutex
	bySubject map[string]codeRecord[P]

	now func() time.Time
}

func newCodeStore[P any]() *codeStore[P] {
	return &codeStore[P]{
		bySubject: make(map[string]codeRecord[P]),
		now:       time.Now,
	}
}

// IssueOrReplace mints a fresh code for the subject, overwriting any
// outstanding one, and returns it. The code stops validating at issue
// time plus ttl.
func (s *codeStore[P]) IssueOrReplace(subjectID string, ttl time.Duration, payload P) string {
	code := internal.NewVerificationCode()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.bySubject[subjectID] = codeRecord[P]{
		subjectID: subjectID,
		code:      code,
		payload:   payload,
		expiresAt: s.now().Add(ttl),
	}

	return code
}

// Validate resolves a presented code to its subject. It succeeds only when
// the code is the subject's current one, its time-to-live has not elapsed,
// and the payload predicate (when non-nil) accepts the stored payload.
// The record is left in place; confirmation flows call Remove after their
// side effects succeed.
func (s *codeStore[P]) Validate(code string, match func(P) bool) (string, bool) {
	if !internal.ValidVerificationCode(code) {
		return "", false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, rec := range s.bySubject {
		if rec.code != code {
			continue
		}
		if !now.Before(rec.expiresAt) {
			return "", false
		}
		if match != nil && !match(rec.payload) {
			return "", false
		}
		return rec.subjectID, true
	}

	return "", false
}

// Remove discards the subject's outstanding code, if any.
func (s *codeStore[P]) Remove(subjectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.bySubject, subjectID)
}

// Sweep drops expired records. Validation already ignores them; this only
// reclaims memory.
func (s *codeStore[P]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for subjectID, rec := range s.bySubject {
		if !now.Before(rec.expiresAt) {
			delete(s.bySubject, subjectID)
			removed++
		}
	}

	return removed
}

func (s *codeStore[P]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.bySubject)
}
