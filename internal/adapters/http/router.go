package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/domain"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/core/ports"
	"github.com/ManuAscendion/Network-TroubleShooting-Agent/internal/observability/metrics"
)

// TrafficConfig bounds inbound load on the API surface. Zero values
// disable the corresponding gate.
type TrafficConfig struct {
	RateLimitRPS     float64
	RateLimitBurst   int
	MaxConcurrent    int
	BackpressureWait time.Duration
}

type Router struct {
	service  ports.TroubleshootService
	recorder ports.FeedbackRecorder
	store    ports.FeedbackStore

	serviceName string
	metrics     *metrics.HTTPServerMetrics
	traffic     TrafficConfig
}

func NewRouter(
	service ports.TroubleshootService,
	recorder ports.FeedbackRecorder,
	store ports.FeedbackStore,
	serviceName string,
	m *metrics.HTTPServerMetrics,
	traffic TrafficConfig,
) *Router {
	return &Router{
		service:     service,
		recorder:    recorder,
		store:       store,
		serviceName: serviceName,
		metrics:     m,
		traffic:     traffic,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/troubleshoot", rt.troubleshoot)
	mux.HandleFunc("/v1/feedback", rt.postFeedback)
	mux.HandleFunc("/v1/feedback/", rt.getFeedbackByID)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
	}

	var handler http.Handler = mux
	if rt.traffic.MaxConcurrent > 0 {
		handler = backpressureMiddleware(handler, rt.traffic.MaxConcurrent, rt.traffic.BackpressureWait)
	}
	if rt.traffic.RateLimitRPS > 0 {
		handler = rateLimitMiddleware(handler, rt.traffic.RateLimitRPS, rt.traffic.RateLimitBurst)
	}
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(rt.serviceName, handler)
	}
	return requestIDMiddleware(accessLogMiddleware(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) troubleshoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	start := time.Now()
	resp, err := rt.service.AnswerQuery(r.Context(), req.Query)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordQuery(rt.serviceName, string(resp.Mode), resp.BestScore, len(resp.Results.Hits), time.Since(start))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (rt *Router) postFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Query     string  `json:"query"`
		Mode      string  `json:"mode"`
		BestScore float64 `json:"best_score"`
		Status    string  `json:"status"`
		Answer    string  `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	fb := &domain.Feedback{
		Query:     req.Query,
		Mode:      domain.DecisionMode(req.Mode),
		BestScore: req.BestScore,
		Status:    req.Status,
		Answer:    req.Answer,
	}
	if err := rt.recorder.Record(r.Context(), fb); err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}

	if rt.metrics != nil {
		rt.metrics.RecordFeedback(rt.serviceName, fb.Status)
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"id": fb.ID})
}

func (rt *Router) getFeedbackByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/feedback/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "feedback id is required"})
		return
	}

	fb, err := rt.store.GetByID(r.Context(), id)
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, fb)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
