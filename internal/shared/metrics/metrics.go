package metrics

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	uploadsAcceptedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "uploads_accepted_total",
		Help: "Total PDF uploads accepted",
	})
	jobsCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "jobs_created_total",
		Help: "Total extraction jobs created",
	}, []string{"engine"})
	jobsStartedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jobs_started_total",
		Help: "Total jobs picked up by a worker",
	})
	jobsSucceededTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jobs_succeeded_total",
		Help: "Total jobs that reached succeeded",
	})
	jobsFailedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jobs_failed_total",
		Help: "Total jobs that reached failed",
	})
	jobsDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jobs_dropped_total",
		Help: "Total dequeued job ids with no job record",
	})
	jobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "job_duration_seconds",
		Help:    "Time from running to a terminal state",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"engine", "status"})
	queueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "work_queue_depth",
		Help: "Pending job ids in the work queue",
	})
)

func init() {
	registry.MustRegister(
		uploadsAcceptedTotal,
		jobsCreatedTotal,
		jobsStartedTotal,
		jobsSucceededTotal,
		jobsFailedTotal,
		jobsDroppedTotal,
		jobDuration,
		queueDepth,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// IncUploadsAccepted increments the accepted uploads counter.
func IncUploadsAccepted() {
	uploadsAcceptedTotal.Inc()
}

// IncJobsCreated increments the created counter for an engine.
func IncJobsCreated(engine string) {
	jobsCreatedTotal.WithLabelValues(engine).Inc()
}

// IncJobsStarted increments the started counter.
func IncJobsStarted() {
	jobsStartedTotal.Inc()
}

// IncJobsSucceeded increments the succeeded counter.
func IncJobsSucceeded() {
	jobsSucceededTotal.Inc()
}

// IncJobsFailed increments the failed counter.
func IncJobsFailed() {
	jobsFailedTotal.Inc()
}

// IncJobsDropped increments the dropped counter.
func IncJobsDropped() {
	jobsDroppedTotal.Inc()
}

// ObserveJobDuration records how long a job spent between running and its terminal state.
func ObserveJobDuration(engine, status string, d time.Duration) {
	if d < 0 {
		d = 0
	}
	jobDuration.WithLabelValues(engine, status).Observe(d.Seconds())
}

// SetQueueDepth records the current work queue depth.
func SetQueueDepth(n int64) {
	queueDepth.Set(float64(n))
}

// HTTPHandler exposes the registry in Prometheus text format.
func HTTPHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Handler exposes metrics as a gin handler.
func Handler() gin.HandlerFunc {
	return gin.WrapH(HTTPHandler())
}
