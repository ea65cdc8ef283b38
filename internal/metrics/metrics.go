// Package metrics exposes Prometheus counters for wiki activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login results.
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
)

// Metrics holds the wiki's collectors and the registry they live in.
type Metrics struct {
	Registry *prometheus.Registry

	Signups   *prometheus.CounterVec
	Logins    *prometheus.CounterVec
	PageSaves prometheus.Counter
	Requests  *prometheus.CounterVec
}

// New registers the wiki collectors, plus the Go and process collectors, on
// a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kanwiki",
			Name:      "signups_total",
			Help:      "Signup attempts by result.",
		}, []string{"result"}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kanwiki",
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		PageSaves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kanwiki",
			Name:      "page_saves_total",
			Help:      "Page saves.",
		}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kanwiki",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Signups,
		m.Logins,
		m.PageSaves,
		m.Requests,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Instrument counts requests handled by next.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return promhttp.InstrumentHandlerCounter(m.Requests, next)
}
