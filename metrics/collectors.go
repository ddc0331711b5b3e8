package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

var (
	rpcRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "sputnik_rpc_requests_total", Help: "JSON-RPC requests by method and outcome."},
		[]string{"method", "outcome"},
	)

	engineInvocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "sputnik_engine_invocations_total", Help: "Executor runs by mode and status."},
		[]string{"mode", "status"},
	)

	engineDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sputnik_engine_invocation_seconds",
			Help:    "Executor wall time.",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"mode"},
	)

	engineInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "sputnik_engine_in_flight", Help: "Executor processes currently running."},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "sputnik_http_requests_total", Help: "HTTP requests by code and uri."},
		[]string{"code", "uri"},
	)
)

func init() {
	prometheus.MustRegister(
		rpcRequests,
		engineInvocations,
		engineDuration,
		engineInFlight,
		httpRequests,
	)
}

// Outcome labels for ObserveRequest.
const (
	OutcomeResult    = "result"
	OutcomeNoContent = "no_content"
	OutcomeError     = "error"
)

func ObserveRequest(method, outcome string) {
	if method == "" {
		method = "unknown"
	}
	rpcRequests.WithLabelValues(method, outcome).Inc()
}

func ObserveInvocation(mode, status string, seconds float64) {
	engineInvocations.WithLabelValues(mode, status).Inc()
	engineDuration.WithLabelValues(mode).Observe(seconds)
}

func InvocationStarted()  { engineInFlight.Inc() }
func InvocationFinished() { engineInFlight.Dec() }

func ObserveHTTP(code, uri string) {
	httpRequests.WithLabelValues(code, uri).Inc()
}

// Handler exposes the default registry on a fasthttp route.
func Handler() fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
}
