package scoring

import "resumescore/internal/types"

// Band thresholds on the rounded aggregate score
const (
	StrongThreshold    = 80
	GoodThreshold      = 60
	NeedsWorkThreshold = 40
)

// BandFor maps an aggregate score to its display band
func BandFor(score int) types.Band {
	switch {
	case score >= StrongThreshold:
		return types.BandStrong
	case score >= GoodThreshold:
		return types.BandGood
	case score >= NeedsWorkThreshold:
		return types.BandNeedsWork
	default:
		return types.BandWeak
	}
}

// BandColor is the indicator colour for a band
func BandColor(band types.Band) string {
	switch band {
	case types.BandStrong:
		return "green"
	case types.BandGood:
		return "yellow"
	case types.BandNeedsWork:
		return "orange"
	default:
		return "red"
	}
}
