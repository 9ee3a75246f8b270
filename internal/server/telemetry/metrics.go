package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the Prometheus metrics of the service on a private registry.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Business metrics
	PessoasCreated *prometheus.CounterVec
}

// NewCollector creates and registers the metrics. Process and Go runtime
// collectors are registered too.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	pessoasCreated := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pessoas_created_total",
			Help: "Number of pessoas created",
		},
		[]string{"rota", "cidade"},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		pessoasCreated,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Collector{
		registry:       registry,
		HTTPRequests:   httpRequests,
		HTTPDuration:   httpDuration,
		PessoasCreated: pessoasCreated,
	}
}

// Registry exposes the underlying registry, mostly for tests.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordHTTPRequest records one finished request.
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordPessoaCreated increments the creation counter. An absent city is
// recorded as an empty label value.
func (c *Collector) RecordPessoaCreated(rota string, cidade *string) {
	v := ""
	if cidade != nil {
		v = *cidade
	}
	c.PessoasCreated.WithLabelValues(rota, v).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// NewMetricsServer returns the server exposing GET /metrics on addr.
func NewMetricsServer(addr string, c *Collector) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", c.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
