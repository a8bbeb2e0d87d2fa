package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hitokoto"

// Quote results reported by QuoteServed.
const (
	ResultOK          = "ok"
	ResultEmpty       = "empty"
	ResultUnavailable = "unavailable"
	ResultError       = "error"
)

// Collectors holds the Prometheus series exported on /-/metrics.
// A nil *Collectors is valid and records nothing.
type Collectors struct {
	quotesServed    *prometheus.CounterVec
	datasetLoads    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewRegistry returns a registry carrying the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return reg
}

// NewCollectors registers the service collectors on reg. sentences reports the
// number of records in the currently loaded dataset; nil skips that gauge.
func NewCollectors(reg prometheus.Registerer, sentences func() float64) *Collectors {
	c := &Collectors{
		quotesServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_served_total",
			Help:      "Quote requests by result.",
		}, []string{"result"}),
		datasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "Dataset load attempts by source and outcome.",
		}, []string{"source", "outcome"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(c.quotesServed, c.datasetLoads, c.requestDuration)

	if sentences != nil {
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_sentences",
			Help:      "Records in the loaded dataset. Zero until the first successful load.",
		}, sentences))
	}

	return c
}

// QuoteServed counts one quote request with the given result label.
func (c *Collectors) QuoteServed(result string) {
	if c == nil {
		return
	}

	c.quotesServed.WithLabelValues(result).Inc()
}

// DatasetLoaded counts a load attempt against source.
func (c *Collectors) DatasetLoaded(source string, err error) {
	if c == nil {
		return
	}

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}

	c.datasetLoads.WithLabelValues(source, outcome).Inc()
}

// ObserveRequest records the latency of a finished request.
func (c *Collectors) ObserveRequest(method, route string, status int, d time.Duration) {
	if c == nil {
		return
	}

	if route == "" {
		route = unmatchedRoute
	}

	c.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler exposes g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
