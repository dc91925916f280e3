// Package prometheus provides Prometheus collectors for dirauth metrics.
//
// [NewPrometheusExporter] accepts an [dirauth.Engine] and exposes an [http.Handler]
// that renders all dirauth counters and histograms in Prometheus text exposition format.
// Counter names are prefixed dirauth_*_total; the single histogram is
// dirauth_validate_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry — callers mount the Handler.
//   - Mutate engine state.
package prometheus
