package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/do"
)

// Metrics groups the Prometheus instruments used by the assistant.
type Metrics struct {
	QueriesTotal     prometheus.Counter
	ModelErrors      prometheus.Counter
	ModelLatency     prometheus.Histogram
	ActionsCommitted *prometheus.CounterVec
}

func New(_ *do.Injector) (*Metrics, error) {
	return NewMetrics("jaws"), nil
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		QueriesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Queries accepted by the conversation pipeline.",
		}),
		ModelErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_errors_total",
			Help:      "Failed language model calls.",
		}),
		ModelLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "model_latency_seconds",
			Help:      "Language model call latency in seconds.",
			Buckets:   []float64{0.5, 1, 2, 3, 5, 8, 13, 21, 30},
		}),
		ActionsCommitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_committed_total",
			Help:      "Side effects committed from model replies, by kind.",
		}, []string{"kind"}),
	}
}

func (m *Metrics) ObserveModelLatency(d time.Duration) {
	m.ModelLatency.Observe(d.Seconds())
}

func Handler() http.Handler {
	return promhttp.Handler()
}
