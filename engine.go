package dirauth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fgjtam/dirauth/cipher"
	"github.com/fgjtam/dirauth/jwt"
	"github.com/fgjtam/dirauth/password"
	"github.com/fgjtam/dirauth/session"
)

// Engine defines a public type used by dirauth APIs.
//
// Engine instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Engine struct {
	config      Config
	directory   DirectoryProvider
	emailSender EmailSender

	hasher      *password.PBKDF2
	tokenCipher *cipher.Cipher
	resetLinks  *jwt.Manager

	sessions    *session.Store
	resetCodes  *codeStore[struct{}]
	changeCodes *codeStore[emailChangePayload]

	audit   *auditDispatcher
	metrics *Metrics

	sweepDone chan struct{}
	sweepWG   sync.WaitGroup
	closeOnce sync.Once
}

// emailChangePayload pins the pending destination address to the code that
// authorizes it.
type emailChangePayload struct {
	NewEmail string
}

// Close describes the close operation and its observable behavior.
//
// Close may return an error when input validation, dependency calls, or security checks fail.
// Close does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.closeOnce.Do(func() {
		if e.sweepDone != nil {
			close(e.sweepDone)
			e.sweepWG.Wait()
		}
		if e.audit != nil {
			e.audit.Close()
		}
	})
}

// AuditDropped describes the auditdropped operation and its observable behavior.
//
// AuditDropped may return an error when input validation, dependency calls, or security checks fail.
// AuditDropped does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior.
//
// MetricsSnapshot may return an error when input validation, dependency calls, or security checks fail.
// MetricsSnapshot does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) metricObserve(id MetricID, d time.Duration) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Observe(id, d)
}

// Login describes the login operation and its observable behavior.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// On success the returned token identifies a session bound to the client IP
// and User-Agent found on ctx; later validations must present the same
// pair. A missing person and a wrong secret both come back as
// ErrInvalidCredentials.
func (e *Engine) Login(ctx context.Context, email, secret string) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}

	person, err := e.directory.GetPersonByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrPersonNotFound) {
			e.metricInc(MetricLoginFailure)
			e.emitAudit(ctx, auditEventLoginFailure, false, "", "", ErrInvalidCredentials, func() map[string]string {
				return map[string]string{"email": email}
			})
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	if !e.hasher.Verify(secret, person.PasswordHash) {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, person.ID, "", ErrInvalidCredentials, nil)
		return "", ErrInvalidCredentials
	}

	token, err := e.sessions.Issue(person.ID, clientIPFromContext(ctx), userAgentFromContext(ctx))
	if err != nil {
		return "", fmt.Errorf("issue session: %w", err)
	}

	e.metricInc(MetricLoginSuccess)
	e.metricInc(MetricSessionCreated)
	e.emitAudit(ctx, auditEventLoginSuccess, true, person.ID, token, nil, nil)

	return token, nil
}

func (e *Engine) sweepLoop(interval time.Duration) {
	defer e.sweepWG.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			e.sessions.Sweep()
			e.resetCodes.Sweep()
			e.changeCodes.Sweep()
		case <-e.sweepDone:
			return
		}
	}
}
