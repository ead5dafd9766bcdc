package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"resumescore/internal/fleet"
	"resumescore/internal/observability"
	"resumescore/internal/schemas"
	"resumescore/internal/types"
)

const tracerName = "resumescore.api"

// createScoreHandler scores the resume in the request body and reports schema warnings alongside
func (s *Server) createScoreHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(tracerName).Start(r.Context(), "api.score")
		defer span.End()

		var raw any
		if err := parseJSONRequest(r, &raw); err != nil {
			failSpan(span, err, "validation")
			writeErrorResponse(w, r, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		validation, err := schemas.ValidateResume(raw)
		if err != nil {
			failSpan(span, err, "schema")
			s.writeError(w, r, err)
			return
		}

		report := s.scoreAndRecord(ctx, om, span, raw)
		s.writeJSON(w, r, http.StatusOK, ScoreResponse{ScoreReport: report, Warnings: validation.Issues})
	}
}

// createValidateHandler checks the request body against the resume schema without scoring it
func (s *Server) createValidateHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := om.Tracer(tracerName).Start(r.Context(), "api.validate")
		defer span.End()

		var raw any
		if err := parseJSONRequest(r, &raw); err != nil {
			failSpan(span, err, "validation")
			writeErrorResponse(w, r, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		report, err := schemas.ValidateResume(raw)
		if err != nil {
			failSpan(span, err, "schema")
			s.writeError(w, r, err)
			return
		}

		span.SetAttributes(
			attribute.Bool("document.valid", report.Valid),
			attribute.Int("document.issues", len(report.Issues)),
		)
		s.writeJSON(w, r, http.StatusOK, report)
	}
}

// createStoreScoreHandler scores the body and stores the result. PUT uses the id from the
// path; POST /resumes assigns a new id and answers 201 with a Location header.
func (s *Server) createStoreScoreHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(tracerName).Start(r.Context(), "api.store_score")
		defer span.End()

		id := r.PathValue("id")
		created := id == ""
		if created {
			id = uuid.NewString()
		}
		span.SetAttributes(attribute.String("resume.id", id))

		var raw any
		if err := parseJSONRequest(r, &raw); err != nil {
			failSpan(span, err, "validation")
			writeErrorResponse(w, r, "Invalid request body", err.Error(), http.StatusBadRequest)
			return
		}

		report := s.scoreAndRecord(ctx, om, span, raw)
		record := fleet.NewRecord(id, report, time.Now().UTC())
		if err := s.Store.Save(ctx, record); err != nil {
			failSpan(span, err, "store")
			s.writeError(w, r, err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
			w.Header().Set("Location", fmt.Sprintf("/resumes/%s/score", id))
		}
		s.writeJSON(w, r, status, record)
	}
}

// createGetScoreHandler returns the stored score of one resume
func (s *Server) createGetScoreHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(tracerName).Start(r.Context(), "api.get_score")
		defer span.End()

		id := r.PathValue("id")
		span.SetAttributes(attribute.String("resume.id", id))

		record, err := s.Store.Get(ctx, id)
		if err != nil {
			failSpan(span, err, "store")
			s.writeError(w, r, err)
			return
		}
		s.writeJSON(w, r, http.StatusOK, record)
	}
}

// createFleetScoreHandler scores an array of resumes in parallel and returns the fleet report
func (s *Server) createFleetScoreHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(tracerName).Start(r.Context(), "api.fleet_score")
		defer span.End()

		var docs []any
		if err := parseJSONRequest(r, &docs); err != nil {
			failSpan(span, err, "validation")
			writeErrorResponse(w, r, "Invalid request body", "expected a JSON array of resumes: "+err.Error(), http.StatusBadRequest)
			return
		}

		sources := make([]fleet.Source, len(docs))
		for i, doc := range docs {
			sources[i] = fleet.RawSource{Name: fmt.Sprintf("resume-%d", i+1), Raw: doc}
		}

		metrics := om.Metrics()
		aggregator := fleet.NewAggregator(s.Engine, s.Workers, func(_ string, report types.ScoreReport, elapsed time.Duration) {
			metrics.RecordScore(ctx, "fleet", report, elapsed)
		})

		report, err := aggregator.Run(ctx, sources)
		if err != nil {
			failSpan(span, err, "aggregation")
			s.writeError(w, r, err)
			return
		}
		metrics.RecordFleetRun(ctx, report.Stats, len(report.Failed))

		span.SetAttributes(
			attribute.Int("fleet.total", report.Stats.TotalResumes),
			attribute.Int("fleet.average", report.Stats.AverageScore),
		)
		s.writeJSON(w, r, http.StatusOK, report)
	}
}

// createStoredStatsHandler computes fleet statistics over every stored score
func (s *Server) createStoredStatsHandler(om *observability.ObservabilityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := om.Tracer(tracerName).Start(r.Context(), "api.stored_stats")
		defer span.End()

		stats, err := fleet.StoredStats(ctx, s.Store)
		if err != nil {
			failSpan(span, err, "store")
			s.writeError(w, r, err)
			return
		}
		span.SetAttributes(attribute.Int("fleet.total", stats.TotalResumes))
		s.writeJSON(w, r, http.StatusOK, stats)
	}
}

// scoreAndRecord runs the engine and records the outcome on the span and in metrics
func (s *Server) scoreAndRecord(ctx context.Context, om *observability.ObservabilityManager, span trace.Span, raw any) types.ScoreReport {
	start := time.Now()
	report := s.Engine.ScoreRaw(raw)
	om.Metrics().RecordScore(ctx, "http", report, time.Since(start))

	span.SetAttributes(
		attribute.Int("ats.score", report.Score),
		attribute.String("ats.band", string(report.Band)),
		attribute.Int("ats.feedback_items", len(report.Feedback)),
	)
	return report
}

func failSpan(span trace.Span, err error, kind string) {
	span.RecordError(err)
	span.SetAttributes(attribute.String("error.type", kind))
}
