package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ecosense",
			Name:      "http_request_duration_seconds",
			Help:      "Histogram of HTTP request latencies by route and status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ecosense",
			Name:      "upstream_request_duration_seconds",
			Help:      "Histogram of round-trip times to external data providers.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"source", "outcome"},
	)
	chatFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ecosense",
			Name:      "chat_fallback_total",
			Help:      "Number of chat replies replaced by the fallback message.",
		},
	)
	pollVotes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ecosense",
			Name:      "poll_votes_total",
			Help:      "Number of poll vote attempts by outcome.",
		},
		[]string{"outcome"},
	)

	registerOnce sync.Once
)

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequestDuration, upstreamDuration, chatFallbacks, pollVotes)
	})
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, route, status string, elapsed time.Duration) {
	httpRequestDuration.WithLabelValues(method, route, status).Observe(elapsed.Seconds())
}

// ObserveUpstream records one call to an external provider.
func ObserveUpstream(source string, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	upstreamDuration.WithLabelValues(source, outcome).Observe(elapsed.Seconds())
}

// IncChatFallback counts a degraded chat reply.
func IncChatFallback() {
	chatFallbacks.Inc()
}

// IncPollVote counts a vote attempt with the given outcome label.
func IncPollVote(outcome string) {
	pollVotes.WithLabelValues(outcome).Inc()
}
