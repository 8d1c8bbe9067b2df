package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder counts bracket-engine operations. A nil Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	drawsGenerated   prometheus.Counter
	matchesCreated   prometheus.Counter
	matchesScheduled prometheus.Counter
	results          *prometheus.CounterVec
	rankingRuns      prometheus.Counter
	rankingSkipped   prometheus.Counter
	pointsCredited   prometheus.Counter
	httpDuration     *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		drawsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "draws_generated_total",
			Help: "Tournament draws generated.",
		}),
		matchesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matches_created_total",
			Help: "Matches created by draw generation.",
		}),
		matchesScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "matches_scheduled_total",
			Help: "Matches assigned to a court and time slot.",
		}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "match_results_total",
			Help: "Match result submissions by kind and outcome.",
		}, []string{"kind", "outcome"}),
		rankingRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ranking_recomputations_total",
			Help: "Full ranking recomputations.",
		}),
		rankingSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ranking_skipped_matches_total",
			Help: "Finalized matches skipped by the ranking because winner or loser was missing.",
		}),
		pointsCredited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ranking_points_records_total",
			Help: "Points history records written.",
		}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		r.drawsGenerated, r.matchesCreated, r.matchesScheduled, r.results,
		r.rankingRuns, r.rankingSkipped, r.pointsCredited, r.httpDuration,
	)
	return r
}

// Handler exposes the recorder's registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) DrawGenerated(matches int) {
	if r == nil {
		return
	}
	r.drawsGenerated.Inc()
	r.matchesCreated.Add(float64(matches))
}

func (r *Recorder) MatchesScheduled(n int) {
	if r == nil {
		return
	}
	r.matchesScheduled.Add(float64(n))
}

func (r *Recorder) ResultSubmitted(kind string, err error) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	r.results.WithLabelValues(kind, outcome).Inc()
}

func (r *Recorder) RankingRecomputed(credited, skipped int) {
	if r == nil {
		return
	}
	r.rankingRuns.Inc()
	r.pointsCredited.Add(float64(credited))
	r.rankingSkipped.Add(float64(skipped))
}

func (r *Recorder) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	r.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}
