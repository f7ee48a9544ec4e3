package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry dashboard bot metrikalari
type Registry struct {
	reg             *prometheus.Registry
	Uploads         *prometheus.CounterVec
	PipelineRuns    *prometheus.CounterVec
	PipelineLatency prometheus.Histogram
	LinesProcessed  prometheus.Counter
	ActiveSessions  prometheus.Gauge
	SessionsSwept   prometheus.Counter
}

// NewRegistry yangi registry yaratish
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_uploads_total",
		Help: "Uploaded tables by detected kind.",
	}, []string{"kind"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_pipeline_runs_total",
		Help: "Pipeline runs by result (ok, schema_error, error).",
	}, []string{"result"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dashboard_pipeline_duration_seconds",
		Buckets: prometheus.DefBuckets,
	})
	lines := prometheus.NewCounter(prometheus.CounterOpts{Name: "dashboard_lines_processed_total"})
	active := prometheus.NewGauge(prometheus.GaugeOpts{Name: "dashboard_active_sessions"})
	swept := prometheus.NewCounter(prometheus.CounterOpts{Name: "dashboard_sessions_swept_total"})

	r.MustRegister(uploads, runs, latency, lines, active, swept)
	return &Registry{
		reg:             r,
		Uploads:         uploads,
		PipelineRuns:    runs,
		PipelineLatency: latency,
		LinesProcessed:  lines,
		ActiveSessions:  active,
		SessionsSwept:   swept,
	}
}

// ObserveRun pipeline natijasini yozish
func (r *Registry) ObserveRun(result string, d time.Duration, lines int) {
	r.PipelineRuns.WithLabelValues(result).Inc()
	r.PipelineLatency.Observe(d.Seconds())
	if lines > 0 {
		r.LinesProcessed.Add(float64(lines))
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
