package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"resumescore/internal/observability"
)

// RequestIDHeader carries the request correlation id in both directions
const RequestIDHeader = "X-Request-ID"

type requestIDKeyType struct{}

var requestIDKey = requestIDKeyType{}

// Handler builds the complete HTTP handler: routes, middleware and OpenTelemetry instrumentation.
// om may be nil.
func (s *Server) Handler(om *observability.ObservabilityManager) http.Handler {
	return om.HTTPMiddleware()(requestIDMiddleware(s.setupRoutes(om)))
}

// route is one entry of the API surface. Protected routes pass through
// rate limiting, authentication and the body size limit.
type route struct {
	pattern   string
	summary   string
	protected bool
	handler   func(s *Server, om *observability.ObservabilityManager) http.HandlerFunc
}

var routes = []route{
	{"GET /health", "Health check", false, func(s *Server, _ *observability.ObservabilityManager) http.HandlerFunc { return s.healthHandler }},
	{"GET /stats", "Server statistics", false, func(s *Server, _ *observability.ObservabilityManager) http.HandlerFunc { return s.statsHandler }},
	{"POST /score", "Score a resume", true, (*Server).createScoreHandler},
	{"POST /validate", "Check a resume against the schema", true, (*Server).createValidateHandler},
	{"POST /resumes", "Score and store a resume under a new id", true, (*Server).createStoreScoreHandler},
	{"PUT /resumes/{id}/score", "Score and store a resume", true, (*Server).createStoreScoreHandler},
	{"GET /resumes/{id}/score", "Stored score of a resume", true, (*Server).createGetScoreHandler},
	{"POST /fleet/stats", "Score many resumes and summarize", true, (*Server).createFleetScoreHandler},
	{"GET /fleet/stats", "Summary of stored scores", true, (*Server).createStoredStatsHandler},
}

// setupRoutes registers every route on a method-aware mux
func (s *Server) setupRoutes(om *observability.ObservabilityManager) *http.ServeMux {
	mux := http.NewServeMux()

	rateLimit := s.rateLimitMiddleware(om)
	sizeLimit := s.requestSizeLimitMiddleware()

	for _, rt := range routes {
		h := rt.handler(s, om)
		if rt.protected {
			h = rateLimit(s.authMiddleware(sizeLimit(h)))
		}
		mux.HandleFunc(rt.pattern, h)
	}
	return mux
}

// requestIDMiddleware propagates an incoming X-Request-ID or assigns a fresh one
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// RequestIDFromContext returns the id assigned by the request-id middleware, or ""
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestAPIKey reads X-API-Key, falling back to an Authorization Bearer token
func requestAPIKey(r *http.Request) string {
	if apiKey := r.Header.Get("X-API-Key"); apiKey != "" {
		return apiKey
	}
	if after, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return after
	}
	return ""
}

// authMiddleware provides API key authentication
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(s.APIKeys) == 0 {
			next(w, r)
			return
		}

		apiKey := requestAPIKey(r)
		if apiKey == "" {
			s.Logger.Info("Authentication failed: missing API key",
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r),
				"request_id", RequestIDFromContext(r.Context()))
			writeErrorResponse(w, r, "Missing API key", "X-API-Key header or Authorization Bearer token required", http.StatusUnauthorized)
			return
		}

		if !s.APIKeys[apiKey] {
			s.Logger.Info("Authentication failed: invalid API key",
				"endpoint", r.URL.Path,
				"client_ip", getClientIP(r),
				"api_key_prefix", maskAPIKey(apiKey),
				"request_id", RequestIDFromContext(r.Context()))
			writeErrorResponse(w, r, "Invalid API key", "Unauthorized access", http.StatusUnauthorized)
			return
		}

		s.Logger.Debug("API authentication successful",
			"endpoint", r.URL.Path,
			"api_key_prefix", maskAPIKey(apiKey))

		next(w, r)
	}
}

// requestSizeLimitMiddleware limits the size of incoming requests
func (s *Server) requestSizeLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if s.MaxRequestSize > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
			}
			next(w, r)
		}
	}
}

// maskAPIKey masks an API key for logging (shows only first 8 characters)
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}
