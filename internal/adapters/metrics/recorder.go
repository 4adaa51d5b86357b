// Package metrics records observation activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/bnema/observation-displayer/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "obs"

// Recorder owns its registry so several instances can coexist in tests.
type Recorder struct {
	registry *prometheus.Registry

	created          prometheus.Counter
	deleted          prometheus.Counter
	swept            prometheus.Counter
	active           prometheus.Gauge
	pendingCallbacks prometheus.Gauge
	droppedTriggers  *prometheus.CounterVec
}

var _ ports.Metrics = (*Recorder)(nil)

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		created: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "observations_created_total",
			Help:      "Observations created by actors.",
		}),
		deleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "observations_deleted_total",
			Help:      "Observations removed by actors or operators.",
		}),
		swept: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "observations_swept_total",
			Help:      "Expired observations removed by the sweeper.",
		}),
		active: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "observations_active",
			Help:      "Observations currently displayed.",
		}),
		pendingCallbacks: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "callbacks_pending",
			Help:      "Callback tokens registered and not yet consumed.",
		}),
		droppedTriggers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "triggers_dropped_total",
			Help:      "Trigger messages that did not run a callback.",
		}, []string{"reason"}),
	}
}

func (r *Recorder) ObservationCreated() {
	r.created.Inc()
}

func (r *Recorder) ObservationsDeleted(n int) {
	if n > 0 {
		r.deleted.Add(float64(n))
	}
}

func (r *Recorder) ObservationsSwept(n int) {
	if n > 0 {
		r.swept.Add(float64(n))
	}
}

func (r *Recorder) ActiveObservations(n int) {
	r.active.Set(float64(n))
}

func (r *Recorder) PendingCallbacks(n int) {
	r.pendingCallbacks.Set(float64(n))
}

func (r *Recorder) TriggerDropped(reason string) {
	r.droppedTriggers.WithLabelValues(reason).Inc()
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
