package session

import (
	"crypto/subtle"
	"errors"
	"sync"
	"time"

	"github.com/fgjtam/dirauth/internal"
)

// ErrNotFound is an exported constant or variable used by the lifecycle engine.
var ErrNotFound = errors.New("session not found")

// ErrExpired is an exported constant or variable used by the lifecycle engine.
var ErrExpired = errors.New("session expired")

// ErrEnded is an exported constant or variable used by the lifecycle engine.
var ErrEnded = errors.New("session ended")

// ErrFingerprintMismatch is an exported constant or variable used by the lifecycle engine.
var ErrFingerprintMismatch = errors.New("session fingerprint mismatch")

// Store defines a public type used by dirauth APIs.
//
// Store is the process-lifetime session registry. A single mutex guards the
// whole keyspace: every operation is short, CPU-bound, and never blocks on
// I/O, so reads always observe a consistent snapshot even while a concurrent
// Issue or End is in flight.
type Store struct {
	mu        sync.Mutex
	ttl       time.Duration
	byToken   map[string]*Session
	bySubject map[string]map[string]struct{}

	now func() time.Time
}

// NewStore describes the newstore operation and its observable behavior.
//
// ttl <= 0 disables hard expiry: sessions then remain valid until explicitly
// ended.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:       ttl,
		byToken:   make(map[string]*Session),
		bySubject: make(map[string]map[string]struct{}),
		now:       time.Now,
	}
}

// Issue describes the issue operation and its observable behavior.
//
// Issue may return an error when input validation, dependency calls, or security checks fail.
// Issue does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) Issue(subjectID, ipAddress, userAgent string) (string, error) {
	token, err := internal.NewSessionToken()
	if err != nil {
		return "", err
	}

	now := s.now()
	record := &Session{
		Token:       token,
		SubjectID:   subjectID,
		Fingerprint: NewFingerprint(ipAddress, userAgent),
		CreatedAt:   now,
	}
	if s.ttl > 0 {
		record.ExpiresAt = now.Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byToken[token] = record

	tokens, ok := s.bySubject[subjectID]
	if !ok {
		tokens = make(map[string]struct{})
		s.bySubject[subjectID] = tokens
	}
	tokens[token] = struct{}{}

	return token, nil
}

// Validate describes the validate operation and its observable behavior.
//
// Validate returns a nil error only while the session is live and the
// presented (ipAddress, userAgent) pair matches the one captured at issuance.
// Failure reasons ([ErrNotFound], [ErrExpired], [ErrEnded],
// [ErrFingerprintMismatch]) are distinguishable for internal logging; callers
// facing external clients must fold them into one uniform failure.
func (s *Store) Validate(token, ipAddress, userAgent string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.liveLocked(token, ipAddress, userAgent)
	return err
}

// Resolve describes the resolve operation and its observable behavior.
//
// Resolve returns the subject only when Validate would currently succeed for
// the same presented client attributes.
func (s *Store) Resolve(token, ipAddress, userAgent string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.liveLocked(token, ipAddress, userAgent)
	if err != nil {
		return "", err
	}
	return record.SubjectID, nil
}

// Get describes the get operation and its observable behavior.
//
// Get returns a copy of the stored record regardless of validity. It exists
// for audit enrichment, not for authorization decisions.
func (s *Store) Get(token string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byToken[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	return *record, nil
}

// End describes the end operation and its observable behavior.
//
// End marks the session terminated. Ending an already-ended session is a
// no-op; ending an unknown token reports [ErrNotFound].
func (s *Store) End(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byToken[token]
	if !ok {
		return ErrNotFound
	}
	if record.EndedAt.IsZero() {
		record.EndedAt = s.now()
	}
	return nil
}

// EndAllForSubject describes the endallforsubject operation and its observable behavior.
//
// EndAllForSubject terminates every live session of the subject and returns
// how many were ended.
func (s *Store) EndAllForSubject(subjectID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	ended := 0
	for token := range s.bySubject[subjectID] {
		record, ok := s.byToken[token]
		if !ok {
			continue
		}
		if record.EndedAt.IsZero() {
			record.EndedAt = now
			ended++
		}
	}
	return ended
}

// Sweep describes the sweep operation and its observable behavior.
//
// Sweep drops ended and expired records to bound memory. It never changes a
// validation outcome: expiry is always re-checked on access.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for token, record := range s.byToken {
		if !record.Ended() && !record.Expired(now) {
			continue
		}

		delete(s.byToken, token)
		if tokens, ok := s.bySubject[record.SubjectID]; ok {
			delete(tokens, token)
			if len(tokens) == 0 {
				delete(s.bySubject, record.SubjectID)
			}
		}
		removed++
	}
	return removed
}

// Len describes the len operation and its observable behavior.
//
// Len may return an error when input validation, dependency calls, or security checks fail.
// Len does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byToken)
}

func (s *Store) liveLocked(token, ipAddress, userAgent string) (*Session, error) {
	record, ok := s.byToken[token]
	if !ok {
		return nil, ErrNotFound
	}
	if record.Ended() {
		return nil, ErrEnded
	}
	if record.Expired(s.now()) {
		return nil, ErrExpired
	}

	presented := NewFingerprint(ipAddress, userAgent)
	ipOK := subtle.ConstantTimeCompare(presented.IPHash[:], record.Fingerprint.IPHash[:]) == 1
	uaOK := subtle.ConstantTimeCompare(presented.UserAgentHash[:], record.Fingerprint.UserAgentHash[:]) == 1
	if !ipOK || !uaOK {
		return nil, ErrFingerprintMismatch
	}

	return record, nil
}
