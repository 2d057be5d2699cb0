package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram

	DraftsOpened    prometheus.Counter
	AutosaveFlushes prometheus.Counter
	Submissions     *prometheus.CounterVec
	UploadsRejected prometheus.Counter
}

func New() *Collector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(registry)
	return &Collector{
		registry: registry,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by status code.",
		}, []string{"status"}),
		requestDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}),
		DraftsOpened: factory.NewCounter(prometheus.CounterOpts{
			Name: "assessment_drafts_opened_total",
			Help: "Assessment drafts opened.",
		}),
		AutosaveFlushes: factory.NewCounter(prometheus.CounterOpts{
			Name: "assessment_autosave_flushes_total",
			Help: "Drafts flushed by the auto-save loop.",
		}),
		Submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "assessment_submissions_total",
			Help: "Finalized assessment submissions by type.",
		}, []string{"type"}),
		UploadsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "attachment_uploads_rejected_total",
			Help: "Attachment uploads rejected by the content type allow list.",
		}),
	}
}

// Record is called by the logging middleware for every finished request.
func (c *Collector) Record(status int, duration time.Duration) {
	c.requestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
	c.requestDuration.Observe(duration.Seconds())
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
