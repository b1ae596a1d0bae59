package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector this service exports.
var Registry = prometheus.NewRegistry()

var (
	viewsCounted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_views_counted_total",
		Help: "Views that incremented a portfolio counter.",
	})
	viewsDeduplicated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_views_deduplicated_total",
		Help: "Views ignored because the address was already counted in the window.",
	}, []string{"source"})
	portfolioDeletes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_deletes_total",
		Help: "Portfolio delete attempts by outcome.",
	}, []string{"outcome"})
	cleanupFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_cleanup_failures_total",
		Help: "Best-effort cleanup steps that failed during portfolio deletion.",
	}, []string{"step"})
	cleanupJobs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cleanup_jobs_total",
		Help: "Cleanup queue jobs by outcome.",
	}, []string{"outcome"})
	resumeParseDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "resume_parse_duration_seconds",
		Help:    "Wall time spent turning an uploaded resume into a portfolio.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
	})
	resumeParseFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "resume_parse_failures_total",
		Help: "Resume parse attempts that did not produce a portfolio.",
	})
)

func init() {
	Registry.MustRegister(
		viewsCounted,
		viewsDeduplicated,
		portfolioDeletes,
		cleanupFailures,
		cleanupJobs,
		resumeParseDuration,
		resumeParseFailures,
	)
}

// IncViewCounted records a counted view.
func IncViewCounted() {
	viewsCounted.Inc()
}

// IncViewDeduplicated records a view skipped by the dedup window. source is
// "cache" or "store".
func IncViewDeduplicated(source string) {
	viewsDeduplicated.WithLabelValues(source).Inc()
}

// IncPortfolioDelete records a delete attempt outcome.
func IncPortfolioDelete(outcome string) {
	portfolioDeletes.WithLabelValues(outcome).Inc()
}

// IncCleanupFailure records a failed best-effort cleanup step.
func IncCleanupFailure(step string) {
	cleanupFailures.WithLabelValues(step).Inc()
}

// IncCleanupJob records a processed cleanup queue job.
func IncCleanupJob(outcome string) {
	cleanupJobs.WithLabelValues(outcome).Inc()
}

// ObserveResumeParse records how long a parse took.
func ObserveResumeParse(d time.Duration) {
	if d < 0 {
		d = 0
	}
	resumeParseDuration.Observe(d.Seconds())
}

// IncResumeParseFailed records a failed parse.
func IncResumeParseFailed() {
	resumeParseFailures.Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
