package server

import (
	"net/http"
	"time"

	"cardioguard/internal/assistant"
	"cardioguard/internal/metrics"
	"cardioguard/internal/notify"
	"cardioguard/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server hosts the monitoring API: daily check-ins, the chat assistant, the
// patient dashboard, and the care-team escalation feed.
type Server struct {
	store    storage.Storage
	assist   assistant.Assistant
	notifier notify.Notifier
	metrics  *metrics.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

func New(store storage.Storage, assist assistant.Assistant, notifier notify.Notifier, m *metrics.Metrics, logger *zap.Logger) *Server {
	return &Server{
		store:    store,
		assist:   assist,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
		now:      time.Now,
	}
}

// Router builds the chi router with all API routes mounted.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/patients", s.handleListPatients)
		r.Get("/patients/{id}", s.handleGetPatient)
		r.Post("/patients/{id}/onboard", s.handleOnboard)
		r.Post("/patients/{id}/check-in", s.handleCheckIn)
		r.Get("/patients/{id}/dashboard", s.handleDashboard)
		r.Get("/patients/{id}/messages", s.handleGetMessages)
		r.Post("/patients/{id}/messages", s.handleSendMessage)
		r.Get("/escalations", s.handleListEscalations)
	})

	return r
}

// observe records request durations per route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		s.metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
