package twitter

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts registry activity.
type Metrics struct {
	created *prometheus.CounterVec
	lookups *prometheus.CounterVec
}

// NewMetrics registers the registry collectors with reg. A nil reg uses
// prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &Metrics{
		created: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "twitter",
			Name:      "clients_created_total",
			Help:      "Clients built per connection and auth mode.",
		}, []string{"connection", "mode"}),
		lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "twitter",
			Name:      "client_lookups_total",
			Help:      "GetClient calls by result (hit, miss, unknown).",
		}, []string{"result"}),
	}
}

func (m *Metrics) clientCreated(name string, mode AuthMode) {
	if m == nil {
		return
	}

	m.created.WithLabelValues(name, string(mode)).Inc()
}

func (m *Metrics) lookup(result string) {
	if m == nil {
		return
	}

	m.lookups.WithLabelValues(result).Inc()
}
