package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the escrow service collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "escrow",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "escrow",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path"},
	)

	operations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "escrow",
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Escrow operations by kind and result code.",
		},
		[]string{"operation", "code"},
	)

	operationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "escrow",
			Subsystem: "ledger",
			Name:      "operation_duration_seconds",
			Help:      "Duration of escrow operations.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		},
		[]string{"operation"},
	)

	movedValue = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "escrow",
			Subsystem: "ledger",
			Name:      "moved_units_total",
			Help:      "Base units moved into or out of custody.",
		},
		[]string{"operation", "currency"},
	)

	invariantViolations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "escrow",
			Subsystem: "ledger",
			Name:      "invariant_violations_total",
			Help:      "Operations halted by derivation drift or corrupt account data.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		operations,
		operationDuration,
		movedValue,
		invariantViolations,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordOperation counts one escrow operation. code is "OK" or an error code.
func RecordOperation(operation, code string, duration time.Duration) {
	operations.WithLabelValues(operation, code).Inc()
	operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordMoved adds amount to the moved-value counter. Float precision is fine for monitoring.
func RecordMoved(operation, currency string, amount uint64) {
	movedValue.WithLabelValues(operation, currency).Add(float64(amount))
}

// RecordInvariantViolation counts a halted operation.
func RecordInvariantViolation() {
	invariantViolations.Inc()
}

// InstrumentHandler wraps next with HTTP metrics collection.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		path := canonicalPath(r.URL.Path)
		method := strings.ToUpper(r.Method)
		httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// canonicalPath keeps label cardinality bounded: swagger assets collapse to one path.
func canonicalPath(raw string) string {
	if strings.HasPrefix(raw, "/swagger/") {
		return "/swagger"
	}
	switch raw {
	case "/escrow/deposit", "/escrow/withdraw",
		"/escrow/token", "/escrow/token/deposit", "/escrow/token/withdraw",
		"/escrow/token/create", "/escrow/token/mint",
		"/escrow/balance", "/escrow/address", "/escrow/transactions",
		"/escrow/audit", "/escrow/faucet":
		return raw
	default:
		return "other"
	}
}
