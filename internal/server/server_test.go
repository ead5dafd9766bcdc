package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumescore/internal/config"
	"resumescore/internal/errors"
	"resumescore/internal/fleet"
	"resumescore/internal/scoring"
	"resumescore/internal/types"
)

const completeResumeJSON = `{
	"personalInfo": {
		"name": "Priya Raman",
		"email": "priya.raman@mailbox.org",
		"phone": "+44 20 7946 0958",
		"location": "Leeds, UK",
		"linkedin": "linkedin.com/in/priyaraman",
		"summary": "Backend engineer with eight years of experience building payment and logistics platforms in Go and Python. I design reliable distributed systems and lead small teams through ambiguous problems. Recently focused on observability, cost reduction and mentoring engineers across three offices."
	},
	"experience": [
		{"position": "Senior Backend Engineer", "company": "Northwind Logistics", "startDate": "2020-03", "current": true,
		 "achievements": ["Increased throughput of the routing service by 30%"]},
		{"position": "Software Engineer", "company": "Contoso Payments", "startDate": "2016-06", "endDate": "2020-02",
		 "achievements": ["Reduced settlement batch runtime by 45%"]}
	],
	"education": [{"institution": "University of Leeds", "degree": "BSc", "field": "Computer Science", "endDate": "2016"}],
	"skills": ["Go", "Python", "PostgreSQL", "Kubernetes", "gRPC"]
}`

func newTestServer(t *testing.T, mutate func(*ServerConfig)) (*Server, http.Handler) {
	t.Helper()
	cfg := config.Default()
	serverCfg := ConfigFrom(cfg, "test")
	serverCfg.RateLimit = &config.RateLimitConfig{}
	if mutate != nil {
		mutate(&serverCfg)
	}
	s := NewServer(cfg, serverCfg, errors.Nop())
	t.Cleanup(s.closeRateLimiter)
	return s, s.Handler(nil)
}

func doRequest(h http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.RemoteAddr = "192.0.2.10:4321"
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func expectedReport(t *testing.T, doc string) types.ScoreReport {
	t.Helper()
	var raw any
	require.NoError(t, json.Unmarshal([]byte(doc), &raw))
	return scoring.NewEngine().ScoreRaw(raw)
}

func TestScoreEndpoint(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := doRequest(h, http.MethodPost, "/score", completeResumeJSON, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	got := decodeBody[ScoreResponse](t, rec)
	want := expectedReport(t, completeResumeJSON)
	assert.Equal(t, want.Score, got.Score)
	assert.Equal(t, types.BandStrong, got.Band)
	assert.Empty(t, got.Warnings)
}

func TestScoreEndpoint_SchemaWarningsDoNotBlockScoring(t *testing.T) {
	_, h := newTestServer(t, nil)
	doc := `{"personalInfo": {"name": "Ada Lovelace"}, "skills": "Go, Rust"}`

	rec := doRequest(h, http.MethodPost, "/score", doc, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[ScoreResponse](t, rec)
	assert.Equal(t, expectedReport(t, doc).Score, got.Score)
	require.NotEmpty(t, got.Warnings)
	assert.Equal(t, "skills", got.Warnings[0].Field)
}

func TestScoreEndpoint_RequestErrors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		maxSize     int64
		wantMessage string
	}{
		{"wrong content type", `{}`, "text/plain", 0, "content-type must be application/json"},
		{"malformed json", `{"personalInfo": `, "application/json", 0, "failed to parse JSON"},
		{"empty body", ``, "application/json", 0, "failed to parse JSON"},
		{"body too large", completeResumeJSON, "application/json", 64, "request body too large (limit is 64 bytes)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, h := newTestServer(t, func(c *ServerConfig) { c.MaxRequestSize = tt.maxSize })

			rec := doRequest(h, http.MethodPost, "/score", tt.body, map[string]string{"Content-Type": tt.contentType})
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			body := decodeBody[ErrorResponse](t, rec)
			assert.Equal(t, "Invalid request body", body.Error)
			assert.Contains(t, body.Message, tt.wantMessage)
			assert.Equal(t, rec.Header().Get(RequestIDHeader), body.RequestID)
		})
	}
}

func TestScoreEndpoint_MethodNotAllowed(t *testing.T) {
	_, h := newTestServer(t, nil)
	rec := doRequest(h, http.MethodGet, "/score", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestValidateEndpoint(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := doRequest(h, http.MethodPost, "/validate", `{"personalInfo": {"email": 42}}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	report := decodeBody[types.ValidationReport](t, rec)
	assert.False(t, report.Valid)
	require.Len(t, report.Issues, 1)
	assert.Equal(t, "personalInfo.email", report.Issues[0].Field)

	rec = doRequest(h, http.MethodPost, "/validate", completeResumeJSON, nil)
	assert.True(t, decodeBody[types.ValidationReport](t, rec).Valid)
}

func TestRequestIDPropagation(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := doRequest(h, http.MethodGet, "/health", "", map[string]string{RequestIDHeader: "req-123"})
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))

	rec = doRequest(h, http.MethodGet, "/health", "", nil)
	_, err := uuid.Parse(rec.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}

func TestAuthMiddleware(t *testing.T) {
	_, h := newTestServer(t, func(c *ServerConfig) { c.APIKeys = []string{"secret-key-123456"} })

	tests := []struct {
		name      string
		headers   map[string]string
		wantCode  int
		wantError string
	}{
		{"missing key", nil, http.StatusUnauthorized, "Missing API key"},
		{"invalid key", map[string]string{"X-API-Key": "wrong"}, http.StatusUnauthorized, "Invalid API key"},
		{"header key", map[string]string{"X-API-Key": "secret-key-123456"}, http.StatusOK, ""},
		{"bearer token", map[string]string{"Authorization": "Bearer secret-key-123456"}, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(h, http.MethodPost, "/score", `{}`, tt.headers)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeBody[ErrorResponse](t, rec).Error)
			}
		})
	}

	// health stays public
	assert.Equal(t, http.StatusOK, doRequest(h, http.MethodGet, "/health", "", nil).Code)
}

func TestStoredScores(t *testing.T) {
	s, h := newTestServer(t, nil)

	rec := doRequest(h, http.MethodPut, "/resumes/cand-1/score", completeResumeJSON, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	saved := decodeBody[fleet.Record](t, rec)
	assert.Equal(t, "cand-1", saved.ID)
	assert.Equal(t, expectedReport(t, completeResumeJSON).Score, saved.Score)

	rec = doRequest(h, http.MethodGet, "/resumes/cand-1/score", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, saved.Score, decodeBody[fleet.Record](t, rec).Score)

	rec = doRequest(h, http.MethodGet, "/resumes/missing/score", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errors.ErrCodeNotFound, decodeBody[ErrorResponse](t, rec).Error)

	rec = doRequest(h, http.MethodPost, "/resumes", `{}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[fleet.Record](t, rec)
	_, err := uuid.Parse(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "/resumes/"+created.ID+"/score", rec.Header().Get("Location"))

	records, err := s.Store.List(t.Context())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestFleetStatsEndpoints(t *testing.T) {
	_, h := newTestServer(t, func(c *ServerConfig) { c.Workers = 2 })

	rec := doRequest(h, http.MethodPost, "/fleet/stats", "["+completeResumeJSON+`, {}]`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	report := decodeBody[types.FleetReport](t, rec)
	assert.Equal(t, 2, report.Stats.TotalResumes)
	require.Len(t, report.Resumes, 2)
	assert.Equal(t, "resume-1", report.Resumes[0].ID)
	assert.Equal(t, "resume-2", report.Resumes[1].ID)
	assert.Equal(t, 1, report.Stats.HighScoring)
	assert.Equal(t, 1, report.Stats.Bands[types.BandStrong])
	assert.Equal(t, 1, report.Stats.Bands[types.BandWeak])

	rec = doRequest(h, http.MethodPost, "/fleet/stats", `{"not": "an array"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(h, http.MethodGet, "/fleet/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decodeBody[types.FleetStats](t, rec).TotalResumes)

	doRequest(h, http.MethodPut, "/resumes/a/score", completeResumeJSON, nil)
	doRequest(h, http.MethodPut, "/resumes/b/score", `{}`, nil)

	rec = doRequest(h, http.MethodGet, "/fleet/stats", "", nil)
	stats := decodeBody[types.FleetStats](t, rec)
	assert.Equal(t, 2, stats.TotalResumes)
	assert.Equal(t, 1, stats.HighScoring)
}

func TestRateLimitMiddleware(t *testing.T) {
	_, h := newTestServer(t, func(c *ServerConfig) {
		c.RateLimit = &config.RateLimitConfig{Enabled: true, RequestsPerMin: 1, BurstCapacity: 1, ByIP: true}
	})

	first := doRequest(h, http.MethodPost, "/score", `{}`, nil)
	assert.Equal(t, http.StatusOK, first.Code)

	second := doRequest(h, http.MethodPost, "/score", `{}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "Rate limit exceeded", decodeBody[ErrorResponse](t, second).Error)

	other := doRequest(h, http.MethodPost, "/score", `{}`, map[string]string{"X-Forwarded-For": "198.51.100.7"})
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestStatsEndpoint(t *testing.T) {
	_, h := newTestServer(t, func(c *ServerConfig) {
		c.RateLimit = &config.RateLimitConfig{Enabled: true, RequestsPerMin: 60, BurstCapacity: 5, ByIP: true}
	})

	rec := doRequest(h, http.MethodGet, "/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "resumescore", body["service"])
	limits, ok := body["rate_limiting"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 60.0, limits["rate_per_minute"], 1e-9)
	assert.InDelta(t, 5.0, limits["burst_capacity"], 1e-9)
}

func TestHealthEndpoint(t *testing.T) {
	_, h := newTestServer(t, nil)

	rec := doRequest(h, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[map[string]any](t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test", body["version"])
}

func BenchmarkScoreEndpoint(b *testing.B) {
	s := NewServer(config.Default(), ServerConfig{Version: "bench"}, errors.Nop())
	h := s.Handler(nil)

	for b.Loop() {
		req := httptest.NewRequest(http.MethodPost, "/score", strings.NewReader(completeResumeJSON))
		req.Header.Set("Content-Type", "application/json")
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", errors.NewValidationError(errors.ErrCodeNotFound, "missing", nil), http.StatusNotFound},
		{"validation", errors.NewValidationError(errors.ErrCodeInvalidRequest, "bad", nil), http.StatusBadRequest},
		{"cancelled", context.Canceled, http.StatusServiceUnavailable},
		{"internal", errors.NewInternalError("BOOM", "boom", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusForError(tt.err))
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name      string
		rateLimit *config.RateLimitConfig
		apiKeys   []string
		want      []string
	}{
		{
			name: "open server",
			want: []string{"POST   /score", "Auth: off", "Rate limit: off"},
		},
		{
			name:      "keyed limits",
			rateLimit: &config.RateLimitConfig{Enabled: true, RequestsPerMin: 60, BurstCapacity: 5, ByIP: true, ByAPIKey: true},
			apiKeys:   []string{"secret-key-1"},
			want:      []string{"Auth: 1 key(s)", "Rate limit: 60/min, burst 5, keyed by api key then client ip"},
		},
		{
			name:      "no key source",
			rateLimit: &config.RateLimitConfig{Enabled: true, RequestsPerMin: 60, BurstCapacity: 5},
			want:      []string{"nothing is limited"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, func(c *ServerConfig) {
				c.RateLimit = tt.rateLimit
				c.APIKeys = tt.apiKeys
			})

			var out strings.Builder
			s.describe(&out)
			for _, want := range tt.want {
				assert.Contains(t, out.String(), want)
			}
			assert.Equal(t, len(routes)+1, strings.Count(out.String(), "\n  "))
		})
	}
}
