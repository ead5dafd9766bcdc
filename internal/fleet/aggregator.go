package fleet

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"resumescore/internal/types"
)

// Scorer evaluates a loosely-typed resume document
type Scorer interface {
	ScoreRaw(raw any) types.ScoreReport
}

// Source yields one resume document to score
type Source interface {
	ID() string
	Load(ctx context.Context) (any, error)
}

// RawSource is a Source over an already decoded document
type RawSource struct {
	Name string
	Raw  any
}

func (s RawSource) ID() string { return s.Name }

func (s RawSource) Load(context.Context) (any, error) { return s.Raw, nil }

// ScoredFunc is called once per successfully scored document
type ScoredFunc func(id string, report types.ScoreReport, elapsed time.Duration)

// Aggregator scores sources in parallel with bounded concurrency
type Aggregator struct {
	scorer   Scorer
	workers  int
	onScored ScoredFunc
}

// NewAggregator creates an aggregator; workers <= 0 means one per CPU
func NewAggregator(scorer Scorer, workers int, onScored ScoredFunc) *Aggregator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Aggregator{
		scorer:   scorer,
		workers:  workers,
		onScored: onScored,
	}
}

type outcome struct {
	report types.ScoreReport
	err    error
}

// Run scores every source and returns the fleet report in input order.
// A source that fails to load is listed in Failed and excluded from the stats.
// Only context cancellation aborts the run.
func (a *Aggregator) Run(ctx context.Context, sources []Source) (types.FleetReport, error) {
	outcomes := make([]outcome, len(sources))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, src := range sources {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			raw, err := src.Load(gCtx)
			if err != nil {
				outcomes[i] = outcome{err: err}
				return nil
			}

			start := time.Now()
			report := a.scorer.ScoreRaw(raw)
			if a.onScored != nil {
				a.onScored(src.ID(), report, time.Since(start))
			}
			outcomes[i] = outcome{report: report}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return types.FleetReport{}, err
	}

	result := types.FleetReport{
		Resumes: make([]types.ScoredResume, 0, len(sources)),
	}
	scores := make([]int, 0, len(sources))
	for i, o := range outcomes {
		if o.err != nil {
			result.Failed = append(result.Failed, types.FailedResume{ID: sources[i].ID(), Error: o.err.Error()})
			continue
		}
		result.Resumes = append(result.Resumes, types.ScoredResume{ID: sources[i].ID(), Report: o.report})
		scores = append(scores, o.report.Score)
	}
	result.Stats = ComputeStats(scores)
	return result, nil
}
