package internaldefs

import (
	dirauth "github.com/fgjtam/dirauth"
)

// CounterDef defines a public type used by dirauth APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   dirauth.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by dirauth APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   dirauth.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the lifecycle engine.
var CounterDefs = []CounterDef{
	{ID: dirauth.MetricLoginSuccess, Name: "dirauth_login_success_total", Help: "Successful login attempts."},
	{ID: dirauth.MetricLoginFailure, Name: "dirauth_login_failure_total", Help: "Failed login attempts."},
	{ID: dirauth.MetricSessionCreated, Name: "dirauth_session_created_total", Help: "Created sessions."},
	{ID: dirauth.MetricSessionRejected, Name: "dirauth_session_rejected_total", Help: "Session validations rejected."},
	{ID: dirauth.MetricLogout, Name: "dirauth_logout_total", Help: "Single-session logout operations."},
	{ID: dirauth.MetricLogoutAll, Name: "dirauth_logout_all_total", Help: "Logout-all operations."},
	{ID: dirauth.MetricPasswordResetRequest, Name: "dirauth_password_reset_request_total", Help: "Password reset requests."},
	{ID: dirauth.MetricPasswordResetConfirmSuccess, Name: "dirauth_password_reset_confirm_success_total", Help: "Successful password reset confirmations."},
	{ID: dirauth.MetricPasswordResetConfirmFailure, Name: "dirauth_password_reset_confirm_failure_total", Help: "Failed password reset confirmations."},
	{ID: dirauth.MetricEmailChangeRequest, Name: "dirauth_email_change_request_total", Help: "Email change requests."},
	{ID: dirauth.MetricEmailChangeConfirmSuccess, Name: "dirauth_email_change_confirm_success_total", Help: "Successful email change confirmations."},
	{ID: dirauth.MetricEmailChangeConfirmFailure, Name: "dirauth_email_change_confirm_failure_total", Help: "Failed email change confirmations."},
	{ID: dirauth.MetricPasswordChangeSuccess, Name: "dirauth_password_change_success_total", Help: "Successful password changes."},
	{ID: dirauth.MetricPasswordChangeInvalidOld, Name: "dirauth_password_change_invalid_old_total", Help: "Password change attempts with invalid old password."},
	{ID: dirauth.MetricPreregisterCreated, Name: "dirauth_preregister_created_total", Help: "Created preregistrations."},
	{ID: dirauth.MetricPreregisterValidated, Name: "dirauth_preregister_validated_total", Help: "Validated preregistration tokens."},
	{ID: dirauth.MetricEmailDeliveryFailure, Name: "dirauth_email_delivery_failure_total", Help: "Outbound email delivery failures."},
}

// HistogramDefs is an exported constant or variable used by the lifecycle engine.
var HistogramDefs = []HistogramDef{
	{ID: dirauth.MetricValidateLatency, Name: "dirauth_validate_latency_seconds", Help: "Session validation latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the lifecycle engine.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the lifecycle engine.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
