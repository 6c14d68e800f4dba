// Package metrics provides Prometheus instrumentation for the server.
package metrics

import (
	"strconv"
	"time"

	"github.com/indigo-web/microserve/http"
	"github.com/indigo-web/microserve/http/method"
	"github.com/indigo-web/microserve/http/status"
	"github.com/indigo-web/microserve/router"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all the collectors. Nil *Metrics is valid and records nothing.
type Metrics struct {
	Connections   prometheus.Counter
	Requests      *prometheus.CounterVec
	ParseDuration prometheus.Histogram
	Uploads       *prometheus.CounterVec
	UploadedBytes prometheus.Counter
}

// New registers the collectors in the registerer.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	if namespace == "" {
		namespace = "microserve"
	}

	factory := promauto.With(reg)

	m := &Metrics{
		Connections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Total number of accepted connections",
		}),
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of requests by method and parse result",
			},
			[]string{"method", "result"},
		),
		ParseDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Time from accepting the connection until the response is written",
			Buckets:   prometheus.DefBuckets,
		}),
		Uploads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "uploads_total",
				Help:      "Total number of file uploads by outcome",
			},
			[]string{"outcome"},
		),
		UploadedBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_bytes_total",
			Help:      "Total number of file bytes delivered to upload handlers",
		}),
	}

	// successful requests of every method are exported as zeros from the very start
	for _, meth := range method.List {
		m.Requests.WithLabelValues(meth.String(), result(nil))
	}

	return m
}

// Connection counts an accepted connection.
func (m *Metrics) Connection() {
	if m == nil {
		return
	}

	m.Connections.Inc()
}

// Request records a served request. The result is either "ok", "close" for clients that
// sent nothing, or the status code the error maps to.
func (m *Metrics) Request(meth method.Method, err error, took time.Duration) {
	if m == nil {
		return
	}

	m.Requests.WithLabelValues(meth.String(), result(err)).Inc()
	m.ParseDuration.Observe(took.Seconds())
}

func result(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, status.ErrCloseConnection):
		return "close"
	default:
		return strconv.Itoa(int(status.CodeOf(err)))
	}
}

// Instrument wraps the router, so uploads passing through its handlers are counted.
func (m *Metrics) Instrument(r router.Router) router.Router {
	if m == nil {
		return r
	}

	return instrumented{Router: r, m: m}
}

type instrumented struct {
	router.Router
	m *Metrics
}

func (i instrumented) Match(meth method.Method, path string) router.Handler {
	handler := i.Router.Match(meth, path)
	if handler == nil {
		return nil
	}

	return instrumentedHandler{Handler: handler, m: i.m}
}

type instrumentedHandler struct {
	router.Handler
	m *Metrics
}

func (h instrumentedHandler) Upload(path string, upload *http.Upload) {
	switch upload.Status {
	case http.UploadWrite:
		h.m.UploadedBytes.Add(float64(upload.CurrentSize))
	case http.UploadEnd:
		h.m.Uploads.WithLabelValues("completed").Inc()
	case http.UploadAborted:
		h.m.Uploads.WithLabelValues("aborted").Inc()
	}

	h.Handler.Upload(path, upload)
}
