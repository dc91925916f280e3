package dirauth

import (
	"errors"

	"github.com/fgjtam/dirauth/cipher"
	"github.com/fgjtam/dirauth/jwt"
	"github.com/fgjtam/dirauth/password"
	"github.com/fgjtam/dirauth/session"
)

const (
	hashIterations = 100_000
	hashKeyLength  = 32
)

// Builder defines a public type used by dirauth APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	directory   DirectoryProvider
	emailSender EmailSender
	auditSink   AuditSink

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithDirectory describes the withdirectory operation and its observable behavior.
//
// WithDirectory may return an error when input validation, dependency calls, or security checks fail.
// WithDirectory does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithDirectory(dp DirectoryProvider) *Builder {
	b.directory = dp
	return b
}

// WithEmailSender describes the withemailsender operation and its observable behavior.
//
// WithEmailSender may return an error when input validation, dependency calls, or security checks fail.
// WithEmailSender does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithEmailSender(sender EmailSender) *Builder {
	b.emailSender = sender
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms may return an error when input validation, dependency calls, or security checks fail.
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.directory == nil {
		return nil, errors.New("directory provider required")
	}
	if b.emailSender == nil {
		return nil, errors.New("email sender required")
	}

	hasher, err := password.NewPBKDF2(password.Config{
		Iterations: hashIterations,
		KeyLength:  hashKeyLength,
		Salt:       []byte(cfg.SecretKey),
	})
	if err != nil {
		return nil, err
	}

	tokenCipher, err := cipher.New(cfg.SecretKey)
	if err != nil {
		return nil, err
	}

	resetLinks, err := jwt.NewManager(jwt.Config{
		Key: []byte(cfg.SecretKey),
	})
	if err != nil {
		return nil, err
	}

	e := &Engine{
		config:      cfg,
		directory:   b.directory,
		emailSender: b.emailSender,
		hasher:      hasher,
		tokenCipher: tokenCipher,
		resetLinks:  resetLinks,
		sessions:    session.NewStore(cfg.Session.TTL),
		resetCodes:  newCodeStore[struct{}](),
		changeCodes: newCodeStore[emailChangePayload](),
		audit:       newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:     NewMetrics(cfg.Metrics),
	}

	if cfg.Session.SweepInterval > 0 {
		e.sweepDone = make(chan struct{})
		e.sweepWG.Add(1)
		go e.sweepLoop(cfg.Session.SweepInterval)
	}

	b.built = true

	return e, nil
}
