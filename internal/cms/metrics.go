package cms

import "github.com/prometheus/client_golang/prometheus"

const metricsNamespace = "legalweb"

// Metrics is a prometheus.Collector counting content resolutions by type and source.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	resolutions *prometheus.CounterVec
}

// NewMetrics returns a new Metrics collector. Register it with the server's registry.
func NewMetrics() *Metrics {
	return &Metrics{
		resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "content",
				Name:      "resolutions_total",
				Help:      "The number of content resolutions by content type and source.",
			},
			[]string{"type", "source"},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.resolutions.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.resolutions.Collect(ch)
}

func (m *Metrics) observe(resource Resource, source Source) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(string(resource), source.String()).Inc()
}
