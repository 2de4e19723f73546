package monitor

import (
	"time"

	"github.com/cactus/go-statsd-client/statsd"
	"github.com/rolegraph/rolegraph/logx"
)

const (
	MetricFailure = 0.0
	MetricSuccess = 1.0

	AlwaysSendMetric = 1.0

	MetricProbeRunsSuccess = "rolegraph.probe.runs.success"
	MetricProbeRunsCorrect = "rolegraph.probe.runs.correct"

	MetricProbeTimingMax  = "rolegraph.probe.responses.timing.max"  // gauge
	MetricProbeTimingP90  = "rolegraph.probe.responses.timing.p90"  // gauge
	MetricProbeTimingP99  = "rolegraph.probe.responses.timing.p99"  // gauge
	MetricProbeTimingP999 = "rolegraph.probe.responses.timing.p999" // gauge
)

type ProbeStatter interface {
	Rotate()
	RecordProbeDuration(logger logx.Logger, d time.Duration)
	SendFailedProbe(logger logx.Logger)
	SendIncorrectProbe(logger logx.Logger)
	SendCorrectProbe(logger logx.Logger)
	SendStats(logger logx.Logger)
}

type Statter struct {
	statsd.Statter
	Histogram *Histogram
}

func (s *Statter) Rotate() {
	s.Histogram.Rotate()
}

func (s *Statter) RecordProbeDuration(logger logx.Logger, d time.Duration) {
	err := s.Histogram.RecordValue(int64(d))
	if err != nil {
		logger.Error(failedToRecordHistogramValue, err, logx.Data{
			Key:   "value",
			Value: int64(d),
		})
	}
}

func (s *Statter) SendFailedProbe(logger logx.Logger) {
	s.sendGauge(logger, MetricProbeRunsSuccess, MetricFailure)
}

func (s *Statter) SendIncorrectProbe(logger logx.Logger) {
	s.sendGauge(logger, MetricProbeRunsSuccess, MetricFailure)
	s.sendGauge(logger, MetricProbeRunsCorrect, MetricFailure)
}

func (s *Statter) SendCorrectProbe(logger logx.Logger) {
	s.sendGauge(logger, MetricProbeRunsSuccess, MetricSuccess)
	s.sendGauge(logger, MetricProbeRunsCorrect, MetricSuccess)
}

func (s *Statter) SendStats(logger logx.Logger) {
	s.sendHistogramQuantile(logger, 90, MetricProbeTimingP90)
	s.sendHistogramQuantile(logger, 99, MetricProbeTimingP99)
	s.sendHistogramQuantile(logger, 99.9, MetricProbeTimingP999)
	s.sendHistogramMax(logger, MetricProbeTimingMax)
}

func (s *Statter) sendGauge(logger logx.Logger, name string, value int64) {
	err := s.Gauge(name, value, AlwaysSendMetric)
	if err != nil {
		logger.Error(failedToSendMetric, err, logx.Data{
			Key:   "metric",
			Value: name,
		})
	}
}

func (s *Statter) sendHistogramQuantile(logger logx.Logger, quantile float64, metric string) {
	v := s.Histogram.ValueAtQuantile(quantile)
	s.sendGauge(logger, metric, v)
}

func (s *Statter) sendHistogramMax(logger logx.Logger, metric string) {
	v := s.Histogram.Max()
	s.sendGauge(logger, metric, v)
}
