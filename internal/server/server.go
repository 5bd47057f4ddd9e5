// Package server exposes the suggestion pipeline over HTTP so the TUI (or
// any other client) can use the backend-aggregation strategy.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wikify/wikify/internal/logging"
	"github.com/wikify/wikify/internal/metrics"
	"github.com/wikify/wikify/internal/recommend"
)

// Aggregator produces enriched articles for a list of interests.
type Aggregator interface {
	Aggregate(ctx context.Context, interests []string) (recommend.Candidates, error)
}

// Config holds server settings
type Config struct {
	Addr               string
	CORSOrigins        []string
	RateLimitPerMinute int // 0 disables the limit
}

type Server struct {
	cfg        Config
	aggregator Aggregator
	httpServer *http.Server
}

func New(cfg Config, aggregator Aggregator) *Server {
	s := &Server{cfg: cfg, aggregator: aggregator}
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
	return s
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", handleRoot)
	r.Get("/healthz", handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		if s.cfg.RateLimitPerMinute > 0 {
			r.Use(httprate.LimitByIP(s.cfg.RateLimitPerMinute, time.Minute))
		}
		r.Get("/recommendations", s.handleRecommendations)
	})

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", s.cfg.Addr).Msg("server listening")
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logging.Info().Msg("server shutting down")
		return s.httpServer.Shutdown(shutdownCtx)
	}
}

type recommendationsResponse struct {
	Recommendations []recommend.Article `json:"recommendations"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ParseCategories splits a comma-separated categories parameter into an
// interest list, dropping blanks and duplicates.
func ParseCategories(raw string) []string {
	set := recommend.NewInterestSet(strings.Split(raw, ",")...)
	return set.Values()
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	interests := ParseCategories(r.URL.Query().Get("categories"))
	if len(interests) == 0 {
		writeJSON(w, r, http.StatusBadRequest, errorResponse{Error: "categories parameter is required"})
		return
	}

	candidates, err := s.aggregator.Aggregate(r.Context(), interests)
	if err != nil {
		logging.Error().Err(err).Strs("interests", interests).Str("request_id", chimiddleware.GetReqID(r.Context())).Msg("recommendations failed")
		writeJSON(w, r, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}

	articles := recommend.SortedView(candidates.Articles, recommend.SortSpec{Key: recommend.SortRelevance, Dir: recommend.Descending})
	if articles == nil {
		articles = []recommend.Article{}
	}
	writeJSON(w, r, http.StatusOK, recommendationsResponse{Recommendations: articles})
}

func handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"message": "wikify recommendation service"})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn().Err(err).Str("path", r.URL.Path).Msg("failed to write response")
	}
}

// requestLogger logs each request and counts it by route pattern.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()

		logging.Debug().
			Str("method", r.Method).
			Str("route", route).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Msg("request")
	})
}
