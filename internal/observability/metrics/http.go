package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	queriesTotal            *prometheus.CounterVec
	bestScore               *prometheus.HistogramVec
	queryDuration           *prometheus.HistogramVec
	resultCount             *prometheus.HistogramVec
	degradedRetrievalTotal  *prometheus.CounterVec
	retrievalErrorTotal     *prometheus.CounterVec
	generationFallbackTotal *prometheus.CounterVec
	feedbackTotal           *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nta",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nta",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nta",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queriesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nta",
			Subsystem: "troubleshoot",
			Name:      "queries_total",
			Help:      "Total answered queries by decision mode.",
		},
		[]string{"service", "mode"},
	)
	bestScore := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nta",
			Subsystem: "troubleshoot",
			Name:      "best_score",
			Help:      "Distribution of top similarity scores per query.",
			Buckets:   []float64{0, 0.1, 0.2, 0.3, 0.35, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
		[]string{"service"},
	)
	queryDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nta",
			Subsystem: "troubleshoot",
			Name:      "query_duration_seconds",
			Help:      "Query cycle duration in seconds by decision mode.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "mode"},
	)
	resultCount := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "nta",
			Subsystem: "troubleshoot",
			Name:      "result_count",
			Help:      "Distribution of ranked hits returned per query.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8},
		},
		[]string{"service"},
	)
	degradedRetrievalTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nta",
			Subsystem: "troubleshoot",
			Name:      "degraded_retrieval_total",
			Help:      "Total queries served from the local index after a remote failure.",
		},
		[]string{"service"},
	)
	retrievalErrorTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nta",
			Subsystem: "troubleshoot",
			Name:      "retrieval_error_total",
			Help:      "Total queries answered from an error sentinel.",
		},
		[]string{"service"},
	)
	generationFallbackTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nta",
			Subsystem: "troubleshoot",
			Name:      "generation_fallback_total",
			Help:      "Total compositions that fell back to raw checklist text after a generation failure.",
		},
		[]string{"service"},
	)
	feedbackTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nta",
			Subsystem: "feedback",
			Name:      "recorded_total",
			Help:      "Total recorded feedback by status.",
		},
		[]string{"service", "status"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		queriesTotal,
		bestScore,
		queryDuration,
		resultCount,
		degradedRetrievalTotal,
		retrievalErrorTotal,
		generationFallbackTotal,
		feedbackTotal,
	)

	return &HTTPServerMetrics{
		registry:                registry,
		requestTotal:            requestTotal,
		requestDuration:         requestDuration,
		requestInFlight:         requestInFlight,
		queriesTotal:            queriesTotal,
		bestScore:               bestScore,
		queryDuration:           queryDuration,
		resultCount:             resultCount,
		degradedRetrievalTotal:  degradedRetrievalTotal,
		retrievalErrorTotal:     retrievalErrorTotal,
		generationFallbackTotal: generationFallbackTotal,
		feedbackTotal:           feedbackTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/feedback/"):
		return "/v1/feedback/{feedback_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordQuery(service, mode string, bestScore float64, resultCount int, duration time.Duration) {
	if mode == "" {
		mode = "unknown"
	}
	m.queriesTotal.WithLabelValues(service, mode).Inc()
	m.bestScore.WithLabelValues(service).Observe(bestScore)
	m.queryDuration.WithLabelValues(service, mode).Observe(duration.Seconds())
	m.resultCount.WithLabelValues(service).Observe(float64(resultCount))
}

func (m *HTTPServerMetrics) RecordDegradedRetrieval(service string) {
	m.degradedRetrievalTotal.WithLabelValues(service).Inc()
}

func (m *HTTPServerMetrics) RecordRetrievalError(service string) {
	m.retrievalErrorTotal.WithLabelValues(service).Inc()
}

func (m *HTTPServerMetrics) RecordGenerationFallback(service string) {
	m.generationFallbackTotal.WithLabelValues(service).Inc()
}

func (m *HTTPServerMetrics) RecordFeedback(service, status string) {
	if status == "" {
		status = "unknown"
	}
	m.feedbackTotal.WithLabelValues(service, status).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
