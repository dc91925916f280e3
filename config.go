package dirauth

import (
	"errors"
	"fmt"
	"time"
)

// ResetStrategy defines a public type used by dirauth APIs.
//
// ResetStrategy selects how the password reset request half delivers its
// proof of control: a short code typed back by the person, or a signed link
// opened in a browser.
type ResetStrategy int

const (
	// ResetStrategyCode delivers a six-character one-time code.
	ResetStrategyCode ResetStrategy = iota

	// ResetStrategyLink delivers a signed, self-expiring URL.
	ResetStrategyLink
)

// Config defines a public type used by dirauth APIs.
//
// Config instances are intended to be configured during initialization and
// then treated as immutable unless documented otherwise.
type Config struct {
	// SecretKey is the service-wide secret. It keys the token cipher and
	// the reset-link signer and salts the password hasher, so rotating it
	// invalidates every stored digest and every outstanding token.
	SecretKey string

	Session       SessionConfig
	PasswordReset PasswordResetConfig
	EmailChange   EmailChangeConfig
	Preregister   PreregisterConfig
	Audit         AuditConfig
	Metrics       MetricsConfig
}

// SessionConfig defines a public type used by dirauth APIs.
type SessionConfig struct {
	// TTL bounds a session's lifetime from issuance. Zero or negative
	// disables hard expiry; sessions then live until ended.
	TTL time.Duration

	// SweepInterval sets how often a background pass removes dead
	// sessions and expired codes from memory. Zero disables the sweeper;
	// correctness does not depend on it.
	SweepInterval time.Duration
}

// PasswordResetConfig defines a public type used by dirauth APIs.
type PasswordResetConfig struct {
	Strategy ResetStrategy

	// CodeTTL bounds both the one-time code and the signed link.
	CodeTTL time.Duration

	// DestinationURL is the page the signed link points at. Required when
	// Strategy is ResetStrategyLink, ignored otherwise.
	DestinationURL string
}

// EmailChangeConfig defines a public type used by dirauth APIs.
type EmailChangeConfig struct {
	CodeTTL time.Duration
}

// PreregisterConfig defines a public type used by dirauth APIs.
type PreregisterConfig struct {
	// DestinationURL is the page the preregistration token link points at.
	DestinationURL string
}

// AuditConfig defines a public type used by dirauth APIs.
type AuditConfig struct {
	// Enabled turns the asynchronous audit pipeline on. With it off the
	// configured sink is never invoked.
	Enabled bool

	// BufferSize is the dispatcher's event queue depth.
	BufferSize int

	// DropIfFull makes emission non-blocking: events are discarded when
	// the queue is full instead of stalling the calling flow.
	DropIfFull bool
}

// MetricsConfig defines a public type used by dirauth APIs.
type MetricsConfig struct {
	Enabled bool

	// EnableLatencyHistograms adds bucketed latency tracking to session
	// validation on top of the plain counters.
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Session: SessionConfig{
			TTL:           0,
			SweepInterval: 0,
		},
		PasswordReset: PasswordResetConfig{
			Strategy: ResetStrategyCode,
			CodeTTL:  time.Hour,
		},
		EmailChange: EmailChangeConfig{
			CodeTTL: time.Hour,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or
// security checks fail.
// Validate does not mutate shared global state and can be used concurrently
// when the receiver and dependencies are concurrently safe.
func (c Config) Validate() error {
	if c.SecretKey == "" {
		return errors.New("config: SecretKey is required")
	}
	switch c.PasswordReset.Strategy {
	case ResetStrategyCode:
	case ResetStrategyLink:
		if c.PasswordReset.DestinationURL == "" {
			return errors.New("config: PasswordReset.DestinationURL is required for the link strategy")
		}
	default:
		return fmt.Errorf("config: unknown password reset strategy %d", c.PasswordReset.Strategy)
	}
	if c.PasswordReset.CodeTTL <= 0 {
		return errors.New("config: PasswordReset.CodeTTL must be positive")
	}
	if c.EmailChange.CodeTTL <= 0 {
		return errors.New("config: EmailChange.CodeTTL must be positive")
	}
	if c.Session.SweepInterval < 0 {
		return errors.New("config: Session.SweepInterval must not be negative")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("config: Audit.BufferSize must be positive when auditing is enabled")
	}
	return nil
}

func cloneConfig(c Config) Config {
	// Config holds no reference types today; a shallow copy is a deep one.
	return c
}
