// Package fleet scores many resumes and summarizes the results.
package fleet

import (
	"math"

	"resumescore/internal/scoring"
	"resumescore/internal/types"
)

// HighScoreThreshold is the exclusive lower bound for a high-scoring resume
const HighScoreThreshold = 80

// ComputeStats aggregates stored or freshly computed scores
func ComputeStats(scores []int) types.FleetStats {
	stats := types.FleetStats{
		TotalResumes: len(scores),
		Bands: map[types.Band]int{
			types.BandStrong:    0,
			types.BandGood:      0,
			types.BandNeedsWork: 0,
			types.BandWeak:      0,
		},
	}
	if len(scores) == 0 {
		return stats
	}

	total := 0
	for _, score := range scores {
		total += score
		if score > HighScoreThreshold {
			stats.HighScoring++
		}
		stats.Bands[scoring.BandFor(score)]++
	}
	stats.AverageScore = int(math.Round(float64(total) / float64(len(scores))))
	return stats
}
