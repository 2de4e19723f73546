package authz

import (
	"context"
	"time"

	"github.com/rolegraph/rolegraph/logx"
	"github.com/rolegraph/rolegraph/metrics"
)

type Option func(*options)

// WithStatter makes the manager report authorization check counts and
// durations.
func WithStatter(statter metrics.Statter) Option {
	return func(o *options) {
		o.statter = statter
	}
}

// WithSecurityLogger makes the manager emit an audit event for every
// authorization decision.
func WithSecurityLogger(securityLogger logx.SecurityLogger) Option {
	return func(o *options) {
		o.securityLogger = securityLogger
	}
}

type options struct {
	statter        metrics.Statter
	securityLogger logx.SecurityLogger
}

func defaultOptions() *options {
	return &options{
		statter:        nopStatter{},
		securityLogger: nopSecurityLogger{},
	}
}

type nopStatter struct{}

func (nopStatter) Inc(string, int64)                    {}
func (nopStatter) Gauge(string, int64)                  {}
func (nopStatter) TimingDuration(string, time.Duration) {}

type nopSecurityLogger struct{}

func (nopSecurityLogger) Log(context.Context, string, string, ...logx.SecurityData) {}
