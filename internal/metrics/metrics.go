package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentari_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mentari_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BrainRoutesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentari_brain_routes_total",
			Help: "Conversation turns handled, by selected route.",
		},
		[]string{"route"},
	)

	BrainFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mentari_brain_failures_total",
			Help: "Conversation turns that ended in the generic error envelope.",
		},
	)

	BrainTurnDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mentari_brain_turn_duration_seconds",
			Help:    "Time spent producing one response envelope.",
			Buckets: prometheus.DefBuckets,
		},
	)

	NLPFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mentari_nlp_fallback_total",
			Help: "Annotations produced in fallback mode.",
		},
	)

	QuizStartedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mentari_quiz_started_total",
			Help: "Quiz sessions started.",
		},
	)

	QuizCompletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentari_quiz_completed_total",
			Help: "Quiz sessions completed, by recommendation tier.",
		},
		[]string{"tier"},
	)

	GatewayMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mentari_gateway_messages_total",
			Help: "Chat messages processed by the messaging gateway.",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		BrainRoutesTotal,
		BrainFailuresTotal,
		BrainTurnDuration,
		NLPFallbackTotal,
		QuizStartedTotal,
		QuizCompletedTotal,
		GatewayMessagesTotal,
	)
}
