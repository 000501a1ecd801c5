// Package metrics provides dispatch observability. Components receive a
// Recorder through dependency injection; NoopRecorder is the default so
// callers never nil-check, and PrometheusRecorder is swapped in when a
// registry is configured.
package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// Recorder records dispatch outcomes and delivery timings.
type Recorder interface {
	// CountDispatch increments the outcome counter for one trigger.
	CountDispatch(result string)
	// ObserveSendDuration records how long a successful delivery took.
	ObserveSendDuration(d time.Duration)
}

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

func (NoopRecorder) CountDispatch(string) {}

func (NoopRecorder) ObserveSendDuration(time.Duration) {}

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	dispatchTotal *prom.CounterVec
	sendDuration  prom.Histogram
}

// NewPrometheusRecorder constructs and registers the dispatch metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		dispatchTotal: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "remindbot",
			Name:      "dispatch_total",
			Help:      "Dispatch trigger outcomes by result",
		}, []string{"result"}),
		sendDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "remindbot",
			Name:      "send_duration_seconds",
			Help:      "Duration of successful reminder deliveries",
			Buckets:   prom.DefBuckets,
		}),
	}
	reg.MustRegister(pr.dispatchTotal, pr.sendDuration)
	return pr
}

func (p *PrometheusRecorder) CountDispatch(result string) {
	if p == nil || p.dispatchTotal == nil {
		return
	}
	p.dispatchTotal.WithLabelValues(result).Inc()
}

func (p *PrometheusRecorder) ObserveSendDuration(d time.Duration) {
	if p == nil || p.sendDuration == nil {
		return
	}
	p.sendDuration.Observe(d.Seconds())
}
