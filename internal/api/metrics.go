package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics use only bounded-cardinality labels (method, route pattern,
// status, rejection reason) -- never player names or tokens.
var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "dogstory_tick_duration_seconds",
		Help:    "Time spent advancing the simulation by one tick",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})

	sessionCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dogstory_session_count",
		Help: "Current number of live map sessions",
	})

	playerCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dogstory_player_count",
		Help: "Current number of live players",
	})

	lootCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dogstory_loot_count",
		Help: "Current number of unpicked loot items across all sessions",
	})

	connectionRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dogstory_connection_rejected_total",
		Help: "Requests rejected before reaching a handler",
	}, []string{"reason"}) // bounded: "rate_limit"

	requestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dogstory_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	requestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dogstory_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "route", "status"})
)

// RecordTick records the wall-clock time spent in one World.Tick call.
func RecordTick(d time.Duration) {
	tickDuration.Observe(d.Seconds())
}

// UpdateWorldGauges refreshes the live session/player/loot gauges. Called
// after every tick (retirement runs inside the tick); a join does not
// refresh them.
func UpdateWorldGauges(sessions, players, loots int) {
	sessionCount.Set(float64(sessions))
	playerCount.Set(float64(players))
	lootCount.Set(float64(loots))
}

// RecordConnectionRejected increments the rejection counter. reason must be
// one of the bounded values registered above.
func RecordConnectionRejected(reason string) {
	connectionRejected.WithLabelValues(reason).Inc()
}

// RecordRequest records one HTTP request's latency and outcome, keyed by
// the route pattern (not the raw URL, to keep cardinality bounded).
func RecordRequest(method, route string, status int, d time.Duration) {
	requestLatency.WithLabelValues(method, route).Observe(d.Seconds())
	requestTotal.WithLabelValues(method, route, http.StatusText(status)).Inc()
}

// metricsMiddleware wraps every request with latency/outcome recording,
// keyed by chi's matched route pattern once routing has resolved it.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		RecordRequest(r.Method, routePattern(r), rec.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// metricsHandler exposes the Prometheus exposition format at /metrics.
func metricsHandler() http.Handler {
	return promhttp.Handler()
}
