package dirauth

import "time"

type SecurityReport struct {
	ResetStrategy         ResetStrategy
	ResetCodeTTL          time.Duration
	EmailChangeCodeTTL    time.Duration
	SessionTTL            time.Duration
	SessionSweeperActive  bool
	FingerprintBinding    bool
	PBKDF2                PasswordConfigReport
	AuditActive           bool
	MetricsActive         bool
	LatencyTrackingActive bool
}

type PasswordConfigReport struct {
	Iterations int
	KeyLength  int
}

// SecurityReport summarizes the engine's effective security posture for
// operational review endpoints. It exposes configuration, never secrets.
func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}

	return SecurityReport{
		ResetStrategy:        e.config.PasswordReset.Strategy,
		ResetCodeTTL:         e.config.PasswordReset.CodeTTL,
		EmailChangeCodeTTL:   e.config.EmailChange.CodeTTL,
		SessionTTL:           e.config.Session.TTL,
		SessionSweeperActive: e.config.Session.SweepInterval > 0,
		FingerprintBinding:   true,
		PBKDF2: PasswordConfigReport{
			Iterations: e.hasher.Iterations(),
			KeyLength:  e.hasher.KeyLength(),
		},
		AuditActive:           e.audit != nil,
		MetricsActive:         e.metrics.Enabled(),
		LatencyTrackingActive: e.metrics.LatencyEnabled(),
	}
}
