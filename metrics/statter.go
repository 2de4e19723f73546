// Package metrics defines the statter interface used to report
// operational metrics.
package metrics

import "time"

// Statter is a minimal stat-reporting interface. Implementations send
// each stat to a metrics backend.
type Statter interface {
	Inc(metric string, value int64)
	Gauge(metric string, value int64)
	TimingDuration(metric string, value time.Duration)
}
