// Package health provides the dashboard API and health check HTTP server.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/valuebet-bot/internal/metrics"
	"github.com/yourusername/valuebet-bot/internal/repository"
)

// DatabasePinger defines the interface for checking database connectivity.
type DatabasePinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
}

// ReadyResponse represents the JSON response for readiness check endpoints.
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks,omitempty"`
	Duration string            `json:"duration,omitempty"`
}

// Server serves the read-only dashboard API plus liveness and readiness
// probes. It never mutates state; all writes go through the scan and
// settlement jobs.
type Server struct {
	serviceName string
	version     string
	port        int
	server      *http.Server
	logger      *logrus.Logger
	db          DatabasePinger
	bets        repository.BetRepository
	metricsOn   bool
	mu          sync.RWMutex
	ready       bool
}

// Config holds the configuration for the HTTP server.
type Config struct {
	ServiceName   string
	Version       string
	Port          int
	Logger        *logrus.Logger
	DB            DatabasePinger
	Bets          repository.BetRepository
	EnableMetrics bool
}

// NewServer creates a new server.
func NewServer(cfg Config) *Server {
	port := cfg.Port
	if port == 0 {
		port = 5000
	}

	return &Server{
		serviceName: cfg.ServiceName,
		version:     cfg.Version,
		port:        port,
		logger:      cfg.Logger,
		db:          cfg.DB,
		bets:        cfg.Bets,
		metricsOn:   cfg.EnableMetrics,
		ready:       false,
	}
}

// SetReady marks the server as ready to accept traffic.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// IsReady returns whether the server is ready.
func (s *Server) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Start starts the server in the background.
func (s *Server) Start(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/api/bets", s.handleBets)
	mux.HandleFunc("/api/stats", s.handleStats)
	mux.HandleFunc("/api/live", s.handleLive)
	if s.metricsOn {
		mux.Handle("/metrics", metrics.Handler())
	}

	s.server = &http.Server{
		Addr:         ":" + strconv.Itoa(s.port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if s.logger != nil {
			s.logger.WithFields(logrus.Fields{
				"port":    s.port,
				"service": s.serviceName,
			}).Info("HTTP server starting")
		}

		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.WithError(err).Error("HTTP server error")
			}
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	if s.logger != nil {
		s.logger.Info("HTTP server shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// handleHealth handles the /healthz endpoint - basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   s.serviceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.version,
	})
}

// handleReady handles the /readyz endpoint - checks database connectivity.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks := make(map[string]string)
	allHealthy := true

	if !s.IsReady() {
		allHealthy = false
		checks["service"] = "not_ready"
	} else {
		checks["service"] = "ok"
	}

	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		if err := s.db.Ping(ctx); err != nil {
			allHealthy = false
			checks["database"] = fmt.Sprintf("error: %v", err)
		} else {
			checks["database"] = "ok"
		}
	}

	response := ReadyResponse{
		Service:  s.serviceName,
		Checks:   checks,
		Duration: time.Since(start).String(),
	}

	status := http.StatusOK
	response.Status = "ok"
	if !allHealthy {
		status = http.StatusServiceUnavailable
		response.Status = "not_ready"
	}
	writeJSON(w, status, response)
}

// handleBets returns the most recent stored bets, settled or not.
func (s *Server) handleBets(w http.ResponseWriter, r *http.Request) {
	bets, err := s.bets.GetRecent(r.Context(), 200)
	if err != nil {
		s.serverError(w, err, "Failed to load bets")
		return
	}
	writeJSON(w, http.StatusOK, bets)
}

// handleStats returns the aggregate performance summary.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.bets.GetStats(r.Context())
	if err != nil {
		s.serverError(w, err, "Failed to load stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleLive returns bets on fixtures playing today.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	today := time.Now().UTC().Format("2006-01-02")
	bets, err := s.bets.GetByMatchDate(r.Context(), today)
	if err != nil {
		s.serverError(w, err, "Failed to load today's bets")
		return
	}
	writeJSON(w, http.StatusOK, bets)
}

func (s *Server) serverError(w http.ResponseWriter, err error, msg string) {
	if s.logger != nil {
		s.logger.WithError(err).Error(msg)
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
